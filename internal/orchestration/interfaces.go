//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"context"
	"io"

	"github.com/agbru/squash/internal/report"
	"github.com/agbru/squash/internal/service"
)

// CompressionService performs one compression exchange.
// *service.Client satisfies it.
type CompressionService interface {
	Compress(ctx context.Context, req service.Request) (service.Outcome, error)
}

// Downloader fetches the file behind a download link.
type Downloader interface {
	Download(ctx context.Context, link string, w io.Writer) (int64, error)
}

// StateObserver is notified after every session transition. Calls happen
// outside the session lock, on the goroutine that caused the transition.
type StateObserver interface {
	StateChanged(snap Snapshot)
}

// ObserverFunc adapts a function to StateObserver.
type ObserverFunc func(snap Snapshot)

// StateChanged calls f.
func (f ObserverFunc) StateChanged(snap Snapshot) { f(snap) }

// ResultPresenter renders a finished report. This interface decouples the
// session from the CLI and REPL output formats.
type ResultPresenter interface {
	PresentReport(r report.Report, out io.Writer)
}

// ErrorHandler turns an error into user-facing output and an exit code.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}
