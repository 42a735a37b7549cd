package logging

import (
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions controls log rotation for NewFileLogger.
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileOptions keeps a few small rotated files.
func DefaultFileOptions() FileOptions {
	return FileOptions{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 14, Compress: true}
}

// NewFileLogger returns a logger appending JSON lines to path with size-based
// rotation. The returned closer releases the file handle.
//
// The TUI owns the terminal, so its logs go here instead of stderr.
func NewFileLogger(path, component string, opts FileOptions) (*ZerologAdapter, io.Closer) {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	zl := zerolog.New(sink).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl), sink
}
