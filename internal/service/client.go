package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/logging"
)

// Endpoint paths, relative to the server URL.
const (
	FormatsPath  = "/api/formats"
	CompressPath = "/api/compress"
)

// RequestIDHeader carries a fresh UUID on every request.
const RequestIDHeader = "X-Request-ID"

const (
	tracerName         = "github.com/agbru/squash/internal/service"
	maxResponseSize    = 1 << 20
	defaultContentType = "application/octet-stream"
)

// RequestObserver receives the duration and status of every request.
// Status is the HTTP status code, or "error" when no response arrived.
type RequestObserver interface {
	ObserveRequest(op, status string, d time.Duration)
}

// Client talks to one compression service.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	logger         logging.Logger
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	observer       RequestObserver
	timeout        time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped for tracing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each compression and download request. Zero, the
// default, leaves a stalled request waiting indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracerProvider = tp }
}

// WithRequestObserver registers a per-request observer, typically metrics.
func WithRequestObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, apperrors.NewConfigError("invalid server url %q: %v", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apperrors.NewConfigError("invalid server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, apperrors.NewConfigError("invalid server url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:        u,
		httpClient:     &http.Client{},
		logger:         logging.Nop(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = otelhttp.NewTransport(base, otelhttp.WithTracerProvider(c.tracerProvider))
	c.httpClient = &hc
	c.tracer = c.tracerProvider.Tracer(tracerName)
	return c, nil
}

// BaseURL returns the server URL the client was created with.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Formats lists the format identifiers the service supports.
func (c *Client) Formats(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "service.Formats")
	defer span.End()

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(FormatsPath), nil)
	if err != nil {
		return nil, c.fail(span, "formats", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, "formats")
	if err != nil {
		return nil, c.fail(span, "formats", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.failf(span, "formats", "unexpected status %d", resp.StatusCode)
	}

	var body formatsWire
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, c.fail(span, "formats", fmt.Errorf("failed to decode response; %w", err))
	}
	if body.Formats == nil {
		return nil, c.failf(span, "formats", "response has no formats list")
	}

	span.SetAttributes(attribute.Int("squash.formats.count", len(*body.Formats)))
	return *body.Formats, nil
}

// Compress uploads req.Content as a multipart form and decodes the outcome.
// A failure body carrying a message is returned as an Outcome even when the
// status is not 2xx; everything else that goes wrong is a TransportError.
func (c *Client) Compress(ctx context.Context, req Request) (Outcome, error) {
	ctx, span := c.tracer.Start(ctx, "service.Compress", trace.WithAttributes(
		attribute.String("squash.file", req.Filename),
		attribute.String("squash.format", req.FormatID),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, req))
	}()
	defer pr.Close()

	httpReq, err := c.newRequest(ctx, http.MethodPost, c.endpoint(CompressPath), pr)
	if err != nil {
		return Outcome{}, c.fail(span, "compress", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.do(httpReq, "compress")
	if err != nil {
		return Outcome{}, c.fail(span, "compress", c.timeoutCause(ctx, "compress", err))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var wire outcomeWire
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&wire)
	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299

	switch {
	case !ok && decodeErr == nil && wire.Success != nil && !*wire.Success && wire.Message != "":
		span.SetStatus(codes.Error, wire.Message)
		return wire.outcome(), nil
	case !ok:
		return Outcome{}, c.failf(span, "compress", "unexpected status %d", resp.StatusCode)
	case decodeErr != nil:
		return Outcome{}, c.fail(span, "compress", fmt.Errorf("failed to decode response; %w", decodeErr))
	case wire.Success == nil:
		return Outcome{}, c.failf(span, "compress", "response has no success field")
	}

	out := wire.outcome()
	if !out.Success {
		span.SetStatus(codes.Error, out.Message)
	}
	return out, nil
}

// Download streams the file behind link into w and returns the byte count.
// Relative links are resolved against the server URL.
func (c *Client) Download(ctx context.Context, link string, w io.Writer) (int64, error) {
	ctx, span := c.tracer.Start(ctx, "service.Download", trace.WithAttributes(
		attribute.String("squash.link", link),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target, err := c.ResolveLink(link)
	if err != nil {
		return 0, c.fail(span, "download", err)
	}

	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, c.fail(span, "download", err)
	}
	resp, err := c.do(req, "download")
	if err != nil {
		return 0, c.fail(span, "download", c.timeoutCause(ctx, "download", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, c.failf(span, "download", "unexpected status %d", resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, c.fail(span, "download", fmt.Errorf("failed to read body; %w", err))
	}
	span.SetAttributes(attribute.Int64("squash.download.bytes", n))
	return n, nil
}

// ResolveLink turns a download link into an absolute URL on the server.
func (c *Client) ResolveLink(link string) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", fmt.Errorf("empty download link")
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid download link %q; %w", link, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// DownloadFilename returns the file name a download link points to. Names
// that would leave the download directory become "download".
func DownloadFilename(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == ".." || name == "/" {
		return "download"
	}
	return name
}

func (c *Client) endpoint(p string) string {
	return c.baseURL.JoinPath(p).String()
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request; %w", err)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, elapsed)
	}
	c.logger.Debug("service request",
		logging.String("op", op),
		logging.String("request_id", req.Header.Get(RequestIDHeader)),
		logging.String("status", status),
		logging.Duration("elapsed", elapsed),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request; %w", err)
	}
	return resp, nil
}

func (c *Client) timeoutCause(ctx context.Context, op string, err error) error {
	if c.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.TimeoutError{Operation: op, Limit: c.timeout}
	}
	return err
}

func (c *Client) fail(span trace.Span, op string, cause error) error {
	return failed(span, apperrors.NewTransportError(op, cause, ""))
}

func (c *Client) failf(span trace.Span, op, format string, a ...any) error {
	return failed(span, apperrors.NewTransportError(op, nil, format, a...))
}

// failed marks span with the cause of err and returns err.
func failed(span trace.Span, err error) error {
	cause := errors.Unwrap(err)
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// fileHeader is the header multipart.Writer.CreateFormFile writes, with the
// candidate's own content type in place of application/octet-stream.
func fileHeader(filename, contentType string) textproto.MIMEHeader {
	if contentType == "" {
		contentType = defaultContentType
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	return h
}

func writeForm(mw *multipart.Writer, req Request) error {
	part, err := mw.CreatePart(fileHeader(req.Filename, req.ContentType))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return err
	}
	if req.FormatID != "" {
		if err := mw.WriteField("format", req.FormatID); err != nil {
			return err
		}
	}
	return mw.Close()
}
