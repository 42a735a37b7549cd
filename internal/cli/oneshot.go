package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/intake"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/ui"
)

// RunConfig configures a one-shot run.
type RunConfig struct {
	// Files are the paths given on the command line. Only the first is sent.
	Files []string
	// OutputFile receives a JSON report when set.
	OutputFile string
	// DownloadDir receives the compressed file when set.
	DownloadDir string
	// MaxSize is the advisory upload size.
	MaxSize int64
	// Quiet prints a single result line.
	Quiet bool
	// Presenter renders the report; nil uses CLIResultPresenter.
	Presenter orchestration.ResultPresenter
	// Errors reports failures and picks the exit code; nil uses
	// CLIResultPresenter.
	Errors orchestration.ErrorHandler
}

// RunOnce submits the first file with the orchestrator's selected format,
// prints the report and returns the process exit code. Errors go to errOut.
func RunOnce(ctx context.Context, orch *orchestration.Orchestrator, cfg RunConfig, out, errOut io.Writer) int {
	var presenter orchestration.ResultPresenter = CLIResultPresenter{Quiet: cfg.Quiet}
	if cfg.Presenter != nil {
		presenter = cfg.Presenter
	}
	var errs orchestration.ErrorHandler = CLIResultPresenter{Quiet: cfg.Quiet}
	if cfg.Errors != nil {
		errs = cfg.Errors
	}

	sources, err := SourcesFromPaths(cfg.Files)
	if err != nil {
		return errs.HandleError(err, errOut)
	}
	if !cfg.Quiet {
		if len(cfg.Files) > 1 {
			fmt.Fprintf(errOut, "%sOnly the first file is sent; %d ignored.%s\n", ui.ColorYellow(), len(cfg.Files)-1, ui.ColorReset())
		}
		DisplayFileSummary(out, sources[0].Name, sources[0].Size, cfg.MaxSize)
	}

	outcome, err := orch.Submit(ctx, sources)
	if err != nil {
		return errs.HandleError(err, errOut)
	}

	rep, _ := orch.Report()
	presenter.PresentReport(rep, out)

	if cfg.OutputFile != "" {
		snap := orch.Snapshot()
		doc := NewReportDocument(rep, snap.FileName, snap.Format.Label(), snap.Elapsed)
		if err := WriteReportJSON(cfg.OutputFile, doc); err != nil {
			return errs.HandleError(err, errOut)
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "%s✓ Report saved to: %s%s\n", ui.ColorGreen(), cfg.OutputFile, ui.ColorReset())
		}
	}

	if cfg.DownloadDir != "" && rep.Download.Enabled {
		path, err := orch.Download(ctx, cfg.DownloadDir)
		if err != nil {
			return errs.HandleError(err, errOut)
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "%s✓ Saved to: %s%s\n", ui.ColorGreen(), path, ui.ColorReset())
		}
	}

	if !outcome.Success {
		return apperrors.ExitErrorCompression
	}
	return apperrors.ExitSuccess
}

// SourcesFromPaths turns command-line paths into sources. Only the first
// path is opened; the rest are carried by name.
func SourcesFromPaths(paths []string) ([]intake.Source, error) {
	if len(paths) == 0 {
		return nil, apperrors.ValidationError{Field: "file", Message: "no file given"}
	}
	first, err := intake.FromPath(paths[0])
	if err != nil {
		return nil, err
	}
	sources := make([]intake.Source, len(paths))
	sources[0] = first
	for i, p := range paths[1:] {
		sources[i+1] = intake.Source{Name: filepath.Base(p)}
	}
	return sources, nil
}
