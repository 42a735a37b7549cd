// Package app wires configuration, logging, telemetry and the compression
// session together and dispatches to the selected front end.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/agbru/squash/internal/catalog"
	"github.com/agbru/squash/internal/cli"
	"github.com/agbru/squash/internal/config"
	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/logging"
	"github.com/agbru/squash/internal/metrics"
	"github.com/agbru/squash/internal/orchestration"
	"github.com/agbru/squash/internal/server"
	"github.com/agbru/squash/internal/service"
	"github.com/agbru/squash/internal/telemetry"
	"github.com/agbru/squash/internal/tui"
	"github.com/agbru/squash/internal/ui"
)

// Mode is the front end chosen for a run.
type Mode int

const (
	// ModeOneShot compresses the files given as arguments and exits.
	ModeOneShot Mode = iota
	// ModeREPL reads commands line by line.
	ModeREPL
	// ModeTUI runs the full-screen dashboard.
	ModeTUI
)

func (m Mode) String() string {
	switch m {
	case ModeOneShot:
		return "oneshot"
	case ModeREPL:
		return "repl"
	case ModeTUI:
		return "tui"
	default:
		return "unknown"
	}
}

// Application represents the squash application instance.
type Application struct {
	Config    config.AppConfig
	In        io.Reader
	ErrWriter io.Writer

	isTerminal func() bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput replaces stdin as the source of REPL commands.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// WithTerminalCheck replaces the check deciding whether the dashboard can
// own the terminal.
func WithTerminalCheck(f func() bool) AppOption {
	return func(a *Application) { a.isTerminal = f }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{
		In:         os.Stdin,
		ErrWriter:  errWriter,
		isTerminal: stdioIsTerminal,
	}
	for _, opt := range opts {
		opt(app)
	}

	programName := "squash"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Mode returns the front end Run will start. File arguments select
// one-shot mode; otherwise the flags decide, and without flags the
// dashboard is used when stdin and stdout are terminals.
func (a *Application) Mode() Mode {
	switch {
	case len(a.Config.Files) > 0:
		return ModeOneShot
	case a.Config.TUI:
		return ModeTUI
	case a.Config.REPL:
		return ModeREPL
	case a.isTerminal():
		return ModeTUI
	default:
		return ModeREPL
	}
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(a.Config.Level())
	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	mode := a.Mode()
	logger, closeLog := a.newLogger(mode)
	defer closeLog()
	logger.Debug("starting", logging.String("mode", mode.String()), logging.String("config", a.Config.String()))

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Endpoint:       a.Config.OTLPEndpoint,
		ServiceName:    "squash",
		ServiceVersion: Version,
		Insecure:       true,
		SamplingRate:   1,
	})
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(apperrors.NewConfigError("tracing: %v", err), a.ErrWriter)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("flushing traces failed", logging.Err(err))
		}
	}()

	recorder := metrics.NewRecorder()
	client, err := service.New(a.Config.ServerURL,
		service.WithTimeout(a.Config.Timeout),
		service.WithLogger(logger),
		service.WithTracerProvider(provider.TracerProvider()),
		service.WithRequestObserver(recorder),
	)
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, a.ErrWriter)
	}

	if a.Config.MetricsAddr == "" {
		return a.runSession(ctx, mode, client, recorder, logger, out)
	}
	return a.runWithMetrics(ctx, mode, client, recorder, logger, out)
}

// runWithMetrics serves the metrics endpoint for as long as the session
// runs. A failure to bind the address is reported before anything is sent.
func (a *Application) runWithMetrics(ctx context.Context, mode Mode, client *service.Client, recorder *metrics.Recorder, logger logging.Logger, out io.Writer) int {
	ln, err := net.Listen("tcp", a.Config.MetricsAddr)
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(apperrors.NewConfigError("metrics address %s: %v", a.Config.MetricsAddr, err), a.ErrWriter)
	}

	g, gctx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	g.Go(func() error {
		return server.New(a.Config.MetricsAddr, recorder.Handler(), logger).Serve(serverCtx, ln)
	})

	code := apperrors.ExitSuccess
	g.Go(func() error {
		defer stopServer()
		code = a.runSession(gctx, mode, client, recorder, logger, out)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("metrics endpoint stopped", err)
	}
	return code
}

// runSession loads the catalog, builds the orchestrator and hands it to
// the front end for mode.
func (a *Application) runSession(ctx context.Context, mode Mode, client *service.Client, recorder *metrics.Recorder, logger logging.Logger, out io.Writer) int {
	cat := catalog.Load(ctx, client,
		catalog.WithTimeout(a.Config.CatalogTimeout),
		catalog.WithLogger(logger),
		catalog.WithObserver(recorder),
	)
	selector := catalog.NewSelector(cat, a.Config.Format)
	if selector.Selected().ID != a.Config.Format {
		logger.Warn("format not offered by the service, using auto", logging.String("format", a.Config.Format))
	}

	opts := []orchestration.Option{
		orchestration.WithLogger(logger),
		orchestration.WithMetrics(recorder),
	}

	switch mode {
	case ModeOneShot:
		if !a.Config.Quiet {
			opts = append(opts, orchestration.WithObserver(cli.NewSpinnerObserver(a.ErrWriter)))
		}
		orch := orchestration.New(client, selector, opts...)
		code := cli.RunOnce(ctx, orch, cli.RunConfig{
			Files:       a.Config.Files,
			OutputFile:  a.Config.OutputFile,
			DownloadDir: a.Config.DownloadDir,
			MaxSize:     a.Config.MaxSize,
			Quiet:       a.Config.Quiet,
		}, out, a.ErrWriter)
		if code != apperrors.ExitSuccess && ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return code

	case ModeTUI:
		bridge := tui.NewBridge()
		orch := orchestration.New(client, selector, append(opts, orchestration.WithObserver(bridge))...)
		return tui.Run(ctx, orch, bridge, tui.Options{
			Version:     Version,
			Server:      client.BaseURL(),
			DownloadDir: a.Config.DownloadDir,
			MaxSize:     a.Config.MaxSize,
		})

	default:
		opts = append(opts, orchestration.WithObserver(cli.NewSpinnerObserver(a.ErrWriter)))
		orch := orchestration.New(client, selector, opts...)
		repl := cli.NewREPL(orch, cli.REPLConfig{
			DownloadDir: a.Config.DownloadDir,
			MaxSize:     a.Config.MaxSize,
		})
		repl.SetInput(a.In)
		repl.SetOutput(out)
		repl.Start(ctx)
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitSuccess
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	formats := catalog.Default().Formats()
	labels := make([]string, len(formats))
	for i, d := range formats {
		labels[i] = d.Label()
	}
	if err := cli.GenerateCompletion(out, a.Config.Completion, labels); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// newLogger picks the log sink for mode. The dashboard owns the terminal,
// so it only logs to a file.
func (a *Application) newLogger(mode Mode) (logging.Logger, func()) {
	if a.Config.LogFile != "" {
		logger, closer := logging.NewFileLogger(a.Config.LogFile, "squash", logging.DefaultFileOptions())
		return logger, func() { _ = closer.Close() }
	}
	if mode == ModeTUI {
		return logging.Nop(), func() {}
	}
	return logging.NewConsoleLogger(a.ErrWriter, "squash", a.Config.NoColor || ui.GetCurrentTheme().Reset == ""), func() {}
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
