package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("format", "zip"), "format", "zip"},
		{"Int", Int("status", 502), "status", 502},
		{"Int64", Int64("input_size", 1048576), "input_size", int64(1048576)},
		{"Uint64", Uint64("bytes", 42), "bytes", uint64(42)},
		{"Float64", Float64("ratio", 50.0), "ratio", 50.0},
		{"Bool", Bool("fallback", true), "fallback", true},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}

	t.Run("Err uses the error key", func(t *testing.T) {
		testErr := errors.New("connection refused")
		f := Err(testErr)
		if f.Key != "error" || f.Value != testErr {
			t.Errorf("Err() = %+v", f)
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "service")

	logger.Info("catalog loaded", Int("formats", 4))
	output := buf.String()

	for _, want := range []string{`"component":"service"`, "catalog loaded", `"formats":4`} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{
			name:     "info",
			log:      func(l Logger) { l.Info("submission started", String("file", "report.pdf")) },
			contains: []string{`"level":"info"`, "submission started", "report.pdf"},
		},
		{
			name:     "warn",
			log:      func(l Logger) { l.Warn("using default catalog") },
			contains: []string{`"level":"warn"`, "using default catalog"},
		},
		{
			name:     "error with cause",
			log:      func(l Logger) { l.Error("compress failed", errors.New("EOF"), Int("status", 500)) },
			contains: []string{`"level":"error"`, "compress failed", "EOF", "500"},
		},
		{
			name:     "error with nil cause",
			log:      func(l Logger) { l.Error("compress failed", nil) },
			contains: []string{`"level":"error"`, "compress failed"},
		},
		{
			name:     "debug",
			log:      func(l Logger) { l.Debug("extra files discarded", Int("discarded", 2)) },
			contains: []string{`"level":"debug"`, "extra files discarded"},
		},
		{
			name:     "printf",
			log:      func(l Logger) { l.Printf("saved %s (%d bytes)", "x.zip", 512) },
			contains: []string{"saved x.zip (512 bytes)"},
		},
		{
			name:     "println",
			log:      func(l Logger) { l.Println("state", "resulted") },
			contains: []string{"state resulted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))
			tt.log(logger)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string", Field{Key: "k", Value: "pdf"}, `"k":"pdf"`},
		{"int64", Field{Key: "k", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64", Field{Key: "k", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"bool", Field{Key: "k", Value: false}, `"k":false`},
		{"error", Field{Key: "k", Value: errors.New("oops")}, `"k":"oops"`},
		{"struct", Field{Key: "k", Value: struct{ ID string }{ID: "zip"}}, "zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("x", tt.field)
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("expected %q in %s", tt.contains, buf.String())
			}
		})
	}
}

func TestNopDiscards(t *testing.T) {
	logger := Nop()
	logger.Info("nothing")
	logger.Error("nothing", errors.New("x"))
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squash.log")
	logger, closer := NewFileLogger(path, "tui", DefaultFileOptions())

	logger.Info("session started", String("server", "http://localhost:8080"))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{"session started", `"component":"tui"`, "localhost:8080"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file should contain %q, got: %s", want, data)
		}
	}
}
