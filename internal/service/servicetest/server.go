// Package servicetest provides an in-process fake of the compression service
// for tests. It serves the same three routes as the real service and records
// every upload it receives.
package servicetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// Upload is one multipart submission received by the fake.
type Upload struct {
	Filename    string
	ContentType string
	Format      string
	HasFormat   bool
	Content     []byte
}

// Response mirrors the service's JSON body.
type Response struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	DownloadLink string `json:"downloadLink,omitempty"`
	OutputSize   int64  `json:"outputSize,omitempty"`
	InputSize    int64  `json:"inputSize,omitempty"`
}

// Server is a fake compression service backed by httptest.Server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	uploads  []Upload
	files    map[string][]byte
	formats  []string
	compress http.HandlerFunc
	gate     <-chan struct{}

	formatsStatus int
	formatsBody   string
	entered       chan struct{}
	compressCalls atomic.Int64
	formatsCalls  atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithFormats sets the identifiers returned by GET /api/formats.
func WithFormats(ids ...string) Option {
	return func(s *Server) { s.formats = ids }
}

// WithFormatsFailure makes GET /api/formats answer with status and a raw body.
func WithFormatsFailure(status int, body string) Option {
	return func(s *Server) {
		s.formatsStatus = status
		s.formatsBody = body
	}
}

// WithCompressHandler replaces the default compression behaviour.
func WithCompressHandler(h http.HandlerFunc) Option {
	return func(s *Server) { s.compress = h }
}

// WithGate holds every compression request until gate is closed or
// receives a value.
func WithGate(gate <-chan struct{}) Option {
	return func(s *Server) { s.gate = gate }
}

// New starts a fake service. Callers must Close it.
func New(opts ...Option) *Server {
	s := &Server{
		files:   make(map[string][]byte),
		formats: []string{"pdf", "zip", "png", "jpg", "jpeg"},
		entered: make(chan struct{}, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.compress == nil {
		s.compress = s.defaultCompress
	}

	r := chi.NewRouter()
	r.Get("/api/formats", s.handleFormats)
	r.Post("/api/compress", s.handleCompress)
	r.Get("/download/{filename}", s.handleDownload)
	s.Server = httptest.NewServer(r)
	return s
}

// Uploads returns a copy of every upload received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

// CompressCalls counts POST /api/compress requests.
func (s *Server) CompressCalls() int { return int(s.compressCalls.Load()) }

// FormatsCalls counts GET /api/formats requests.
func (s *Server) FormatsCalls() int { return int(s.formatsCalls.Load()) }

// Entered receives a value each time a compression request reaches the gate.
func (s *Server) Entered() <-chan struct{} { return s.entered }

// PutFile makes name downloadable under /download/name.
func (s *Server) PutFile(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	s.formatsCalls.Add(1)
	if s.formatsStatus != 0 {
		w.WriteHeader(s.formatsStatus)
		_, _ = io.WriteString(w, s.formatsBody)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"formats": s.formats})
}

func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	s.compressCalls.Add(1)
	if s.gate != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
		select {
		case <-s.gate:
		case <-r.Context().Done():
			return
		}
	}
	s.compress(w, r)
}

// defaultCompress behaves like the real service: it validates the format
// against the extension and "compresses" by keeping the first half of the
// content.
func (s *Server) defaultCompress(w http.ResponseWriter, r *http.Request) {
	upload, err := ReadUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: fmt.Sprintf("Error retrieving the file: %v", err)})
		return
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, upload)
	s.mu.Unlock()

	format := upload.Format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(upload.Filename)), ".")
		if format == "" {
			format = "zip"
		}
	}
	lower := strings.ToLower(upload.Filename)
	switch {
	case format == "pdf" && !strings.HasSuffix(lower, ".pdf"):
		writeJSON(w, http.StatusBadRequest, Response{Message: "PDF compression can only be used with PDF files"})
		return
	case (format == "png" || format == "jpg" || format == "jpeg") && !strings.HasSuffix(lower, "."+format):
		writeJSON(w, http.StatusBadRequest, Response{Message: fmt.Sprintf("%s compression can only be used with %s files", format, format)})
		return
	}

	compressed := upload.Content[:len(upload.Content)/2]
	base := strings.TrimSuffix(upload.Filename, filepath.Ext(upload.Filename))
	name := fmt.Sprintf("%s_compressed.%s", base, format)
	s.PutFile(name, compressed)

	writeJSON(w, http.StatusOK, Response{
		Success:      true,
		Message:      "File compressed successfully",
		DownloadLink: "/download/" + name,
		InputSize:    int64(len(upload.Content)),
		OutputSize:   int64(len(compressed)),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	s.mu.Lock()
	data, ok := s.files[name]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// ReadUpload parses a compression request the way the service does.
func ReadUpload(r *http.Request) (Upload, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return Upload{}, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return Upload{}, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, err
	}
	_, hasFormat := r.MultipartForm.Value["format"]
	return Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Format:      r.FormValue("format"),
		HasFormat:   hasFormat,
		Content:     content,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
