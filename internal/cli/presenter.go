package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agbru/squash/internal/catalog"
	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/format"
	"github.com/agbru/squash/internal/intake"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/report"
	"github.com/agbru/squash/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for compression reports in the
// command-line interface.
type CLIResultPresenter struct {
	// Quiet prints a single line per report.
	Quiet bool
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentReport displays a finished report.
func (p CLIResultPresenter) PresentReport(r report.Report, out io.Writer) {
	if p.Quiet {
		DisplayQuietReport(out, r)
		return
	}
	DisplayReport(out, r)
}

// HandleError prints err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}

	var (
		validationErr apperrors.ValidationError
		configErr     apperrors.ConfigError
		timeoutErr    apperrors.TimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		fmt.Fprintf(out, "%s%s%s\n", ui.ColorRed(), validationErr.Message, ui.ColorReset())
	case errors.As(err, &configErr):
		fmt.Fprintf(out, "%sConfiguration error: %s%s\n", ui.ColorRed(), configErr.Message, ui.ColorReset())
	case errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sStatus: Timeout. %s%s\n", ui.ColorYellow(), timeoutErr.Error(), ui.ColorReset())
	case apperrors.IsContextError(err):
		fmt.Fprintf(out, "%sStatus: Canceled.%s\n", ui.ColorYellow(), ui.ColorReset())
	default:
		fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
	return apperrors.ExitCodeFor(err)
}

// DisplayReport writes a colored, multi-line report.
func DisplayReport(out io.Writer, r report.Report) {
	if !r.Success {
		fmt.Fprintf(out, "\n%s%s✗ %s%s\n", ui.ColorBold(), ui.ColorRed(), r.Heading, ui.ColorReset())
		fmt.Fprintf(out, "  %s\n\n", r.Message)
		return
	}

	fmt.Fprintf(out, "\n%s%s✓ %s%s\n", ui.ColorBold(), ui.ColorGreen(), r.Heading, ui.ColorReset())
	if r.HasRatio {
		fmt.Fprintf(out, "  %s\n", ui.Paint(ui.ColorPrimary(), r.RatioText))
	}
	fmt.Fprintln(out)

	width := max(len(report.OriginalSizeLabel), len(r.OutputSizeLabel))
	fmt.Fprintf(out, "  %s%-*s%s  %s\n", ui.ColorSecondary(), width, report.OriginalSizeLabel, ui.ColorReset(), r.InputSize)
	fmt.Fprintf(out, "  %s%-*s%s  %s\n", ui.ColorSecondary(), width, r.OutputSizeLabel, ui.ColorReset(), r.OutputSize)

	if r.Download.Enabled {
		fmt.Fprintf(out, "\n  %s: %s\n", r.Download.Label, ui.Paint(ui.ColorBlue(), r.DownloadLink))
	}
	fmt.Fprintln(out)
}

// FormatQuietReport formats a report as one line suitable for scripting.
func FormatQuietReport(r report.Report) string {
	if !r.Success {
		return "failure\t" + r.Message
	}
	fields := []string{"success", r.InputSize, r.OutputSize}
	if r.HasRatio {
		fields = append(fields, fmt.Sprintf("%.1f%%", r.Ratio))
	}
	if r.Download.Enabled {
		fields = append(fields, r.DownloadLink)
	}
	return strings.Join(fields, "\t")
}

// DisplayQuietReport outputs a report in quiet mode.
func DisplayQuietReport(out io.Writer, r report.Report) {
	fmt.Fprintln(out, FormatQuietReport(r))
}

// DisplayFormats lists the catalog with the selected format marked.
func DisplayFormats(out io.Writer, c *catalog.Catalog, selected string) {
	fmt.Fprintf(out, "\n%sSelect Compression Format%s\n", ui.ColorBold(), ui.ColorReset())
	if c.FromFallback() {
		fmt.Fprintf(out, "%s(service unavailable, showing built-in formats)%s\n", ui.ColorSecondary(), ui.ColorReset())
	}
	for _, d := range c.Formats() {
		marker := "  "
		if d.ID == selected {
			marker = ui.Paint(ui.ColorGreen(), "► ")
		}
		fmt.Fprintf(out, "%s%s %s%-6s%s %-14s %s%s%s\n",
			marker, d.Icon,
			ui.ColorPrimary(), d.Label(), ui.ColorReset(),
			d.DisplayName,
			ui.ColorSecondary(), d.Description, ui.ColorReset())
	}
	fmt.Fprintln(out)
}

// DisplayIntakeHint shows what the selected format accepts and the
// advisory size.
func DisplayIntakeHint(out io.Writer, policy catalog.Policy, maxSize int64) {
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorSecondary(), intake.AdvisoryNote(policy, maxSize), ui.ColorReset())
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorSecondary(), policy.Display.TargetHint, ui.ColorReset())
}

// DisplayFileSummary shows the file about to be sent.
func DisplayFileSummary(out io.Writer, name string, size, maxSize int64) {
	fmt.Fprintf(out, "%s%s%s (%s)\n", ui.ColorBold(), name, ui.ColorReset(), format.FormatBytes(size))
	if intake.OverAdvisoryLimit(size, maxSize) {
		fmt.Fprintf(out, "%sWarning: larger than the advised %s%s\n", ui.ColorYellow(), format.FormatBytes(maxSize), ui.ColorReset())
	}
}
