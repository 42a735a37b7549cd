// Package cli provides the line-oriented front ends of squash: the
// interactive REPL, the one-shot runner used by scripts, report rendering
// and shell completion.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agbru/squash/internal/catalog"
	"github.com/agbru/squash/internal/format"
	"github.com/agbru/squash/internal/intake"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/ui"
)

// REPLPrompt is printed before every command.
const REPLPrompt = "squash> "

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DownloadDir is used by "download" when no directory is given.
	DownloadDir string
	// MaxSize is the advisory upload size shown in hints.
	MaxSize int64
	// Presenter renders reports; nil uses CLIResultPresenter.
	Presenter orchestration.ResultPresenter
	// Errors prints command failures; nil uses CLIResultPresenter.
	Errors orchestration.ErrorHandler
}

// REPL is an interactive session over one orchestrator.
type REPL struct {
	config    REPLConfig
	orch      *orchestration.Orchestrator
	presenter orchestration.ResultPresenter
	errs      orchestration.ErrorHandler
	in        io.Reader
	out       io.Writer
}

// NewREPL creates a new REPL instance reading stdin and writing stdout.
//
// Parameters:
//   - orch: The session to drive.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(orch *orchestration.Orchestrator, config REPLConfig) *REPL {
	if config.MaxSize <= 0 {
		config.MaxSize = intake.DefaultAdvisoryLimit
	}
	r := &REPL{
		config:    config,
		orch:      orch,
		presenter: config.Presenter,
		errs:      config.Errors,
		in:        os.Stdin,
		out:       os.Stdout,
	}
	if r.presenter == nil {
		r.presenter = CLIResultPresenter{}
	}
	if r.errs == nil {
		r.errs = CLIResultPresenter{}
	}
	return r
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start reads commands until exit, EOF or cancellation of ctx.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	DisplayFormats(r.out, r.orch.Catalog(), r.orch.Snapshot().Format.ID)
	DisplayIntakeHint(r.out, r.orch.Policy(), r.config.MaxSize)
	fmt.Fprintln(r.out)

	scanner := bufio.NewScanner(r.in)
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(r.out, ui.Paint(ui.ColorGreen(), REPLPrompt))

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════╗%s\n", ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sFile Compression - Interactive Mode%s  %s║%s\n",
		ui.ColorPrimary(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════╝%s\n\n", ui.ColorPrimary(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sformats%s            - List compression formats\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sformat <id|auto>%s   - Choose the target format (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.formatList())
	fmt.Fprintf(r.out, "  %scompress <path>%s    - Compress a file (quote paths with spaces)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s             - Display the session state\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdownload [dir]%s     - Save the compressed file\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sreset%s              - Start over with another file\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s               - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s        - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

func (r *REPL) formatList() string {
	formats := r.orch.Catalog().Formats()
	labels := make([]string, len(formats))
	for i, d := range formats {
		labels[i] = d.Label()
	}
	return strings.Join(labels, ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(input[len(parts[0]):])

	switch cmd {
	case "formats", "ls":
		DisplayFormats(r.out, r.orch.Catalog(), r.orch.Snapshot().Format.ID)
	case "format", "f":
		r.cmdFormat(args)
	case "compress", "c":
		r.cmdCompress(ctx, rest)
	case "status", "st":
		r.cmdStatus()
	case "download", "dl":
		r.cmdDownload(ctx, rest)
	case "reset", "r":
		r.cmdReset()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}

	return true
}

func (r *REPL) cmdFormat(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: format <id|auto>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available formats: %s\n", r.formatList())
		return
	}

	err := r.orch.SelectFormat(catalog.ParseID(args[0]))
	switch {
	case errors.Is(err, orchestration.ErrBusy):
		return
	case errors.Is(err, orchestration.ErrNotSelecting):
		r.printResetHint()
		return
	case err != nil:
		r.errs.HandleError(err, r.out)
		fmt.Fprintf(r.out, "Available formats: %s\n", r.formatList())
		return
	}

	d := r.orch.Snapshot().Format
	fmt.Fprintf(r.out, "Format changed to: %s%s%s (%s)\n", ui.ColorGreen(), d.Label(), ui.ColorReset(), d.DisplayName)
	DisplayIntakeHint(r.out, r.orch.Policy(), r.config.MaxSize)
}

func (r *REPL) cmdCompress(ctx context.Context, text string) {
	if text == "" {
		fmt.Fprintf(r.out, "%sUsage: compress <path>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	if r.orch.State() == orchestration.Resulted {
		r.printResetHint()
		return
	}

	sources, err := intake.SourcesFromText(text)
	if err != nil {
		r.errs.HandleError(err, r.out)
		return
	}
	if len(sources) > 0 {
		DisplayFileSummary(r.out, sources[0].Name, sources[0].Size, r.config.MaxSize)
	}

	_, err = r.orch.Submit(ctx, sources)
	switch {
	case errors.Is(err, orchestration.ErrBusy), errors.Is(err, orchestration.ErrNotSelecting):
		return
	case errors.Is(err, intake.ErrNoFile):
		fmt.Fprintf(r.out, "%sUsage: compress <path>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	case err != nil:
		r.errs.HandleError(err, r.out)
		return
	}

	rep, ok := r.orch.Report()
	if !ok {
		return
	}
	r.presenter.PresentReport(rep, r.out)
	if rep.Download.Enabled {
		fmt.Fprintf(r.out, "Type %sdownload%s to save the file or %sreset%s to %s.\n",
			ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset(), strings.ToLower(rep.Reset.Label))
	} else {
		fmt.Fprintf(r.out, "Type %sreset%s to %s.\n", ui.ColorYellow(), ui.ColorReset(), strings.ToLower(rep.Reset.Label))
	}
}

func (r *REPL) cmdStatus() {
	snap := r.orch.Snapshot()
	fmt.Fprintf(r.out, "\n%sSession:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  State:   %s%s%s\n", ui.ColorPrimary(), snap.State, ui.ColorReset())
	fmt.Fprintf(r.out, "  Format:  %s%s%s (%s)\n", ui.ColorPrimary(), snap.Format.Label(), ui.ColorReset(), snap.Format.DisplayName)
	fmt.Fprintf(r.out, "  Catalog: %s%s%s\n", ui.ColorBlue(), serviceSource(r.orch.Catalog()), ui.ColorReset())
	if snap.FileName != "" {
		fmt.Fprintf(r.out, "  File:    %s (%s)\n", snap.FileName, format.FormatBytes(snap.FileSize))
	}
	if snap.State == orchestration.Resulted {
		fmt.Fprintf(r.out, "  Elapsed: %s\n", format.FormatExecutionDuration(snap.Elapsed))
		if snap.Outcome != nil {
			result := ui.Paint(ui.ColorGreen(), "success")
			if !snap.Outcome.Success {
				result = ui.Paint(ui.ColorRed(), "failure")
			}
			fmt.Fprintf(r.out, "  Result:  %s\n", result)
		}
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdDownload(ctx context.Context, dir string) {
	if dir == "" {
		dir = r.config.DownloadDir
	} else if paths := intake.SplitDropped(dir); len(paths) > 0 {
		dir = paths[0]
	}

	path, err := r.orch.Download(ctx, dir)
	switch {
	case errors.Is(err, orchestration.ErrNoDownload):
		fmt.Fprintf(r.out, "%sNothing to download.%s\n", ui.ColorYellow(), ui.ColorReset())
	case err != nil:
		r.errs.HandleError(err, r.out)
	default:
		fmt.Fprintf(r.out, "%s✓ Saved to: %s%s\n", ui.ColorGreen(), path, ui.ColorReset())
	}
}

func (r *REPL) cmdReset() {
	if err := r.orch.Reset(); err != nil {
		return
	}
	d := r.orch.Snapshot().Format
	fmt.Fprintf(r.out, "Ready. Format: %s%s%s\n", ui.ColorGreen(), d.Label(), ui.ColorReset())
	DisplayIntakeHint(r.out, r.orch.Policy(), r.config.MaxSize)
}

func (r *REPL) printResetHint() {
	fmt.Fprintf(r.out, "Type %sreset%s before starting another file.\n", ui.ColorYellow(), ui.ColorReset())
}

func serviceSource(c *catalog.Catalog) string {
	if c.FromFallback() {
		return "built-in formats (service unavailable)"
	}
	return "formats from service"
}
