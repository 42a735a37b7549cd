// Package server exposes the client's metrics over HTTP while a session runs.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/agbru/squash/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves /metrics and /healthz on a local address.
type Server struct {
	addr    string
	metrics http.Handler
	logger  logging.Logger
	config  SecurityConfig
}

// Option configures a Server.
type Option func(*Server)

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.config = c }
}

// New creates a metrics server. It does not listen until Run.
func New(addr string, metrics http.Handler, logger logging.Logger, opts ...Option) *Server {
	s := &Server{addr: addr, metrics: metrics, logger: logger, config: DefaultSecurityConfig()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler, wrapped in the security middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.config.RequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(s.config.RequestsPerMinute, time.Minute))
	}
	r.Use(func(next http.Handler) http.Handler {
		return SecurityMiddleware(s.config, next.ServeHTTP)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Run listens on the configured address until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("metrics endpoint listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
