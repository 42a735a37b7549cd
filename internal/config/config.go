package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/squash/internal/catalog"
	apperrors "github.com/agbru/squash/internal/errors"
	"github.com/agbru/squash/internal/ui"
)

// EnvPrefix is the prefix of every environment variable read by squash.
const EnvPrefix = "SQUASH_"

// Defaults.
const (
	DefaultServerURL      = "http://localhost:8080"
	DefaultCatalogTimeout = 10 * time.Second
	DefaultMaxSize        = 100 << 20
	DefaultTheme          = "dark"
	DefaultLogLevel       = "info"
)

// CompletionShells lists the shells accepted by -completion.
var CompletionShells = []string{"bash", "zsh", "fish", "powershell"}

// AppConfig holds the resolved configuration of one squash run.
type AppConfig struct {
	// ServerURL is the base URL of the compression service.
	ServerURL string
	// Format is the format id to submit with. Empty means auto.
	Format string
	// DownloadDir, when set, saves the compressed file after a successful
	// one-shot run.
	DownloadDir string
	// OutputFile receives a JSON report of the outcome.
	OutputFile string
	// Timeout bounds each compression and download request. Zero waits
	// indefinitely.
	Timeout time.Duration
	// CatalogTimeout bounds the format list request.
	CatalogTimeout time.Duration
	// MaxSize is the advisory size shown next to the file input. It is
	// never enforced.
	MaxSize int64

	TUI     bool
	REPL    bool
	Quiet   bool
	NoColor bool
	Theme   string

	LogLevel string
	LogFile  string

	MetricsAddr  string
	OTLPEndpoint string

	Completion string
	Version    bool

	// ConfigFile is the YAML file the configuration was read from, if any.
	ConfigFile string

	// Files are the positional arguments. A non-empty list selects
	// one-shot mode.
	Files []string
}

// ParseConfig parses args into an AppConfig. Values come, in order of
// priority, from flags, SQUASH_* environment variables, the YAML config
// file and the defaults. -h returns flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := AppConfig{}
	var format string
	fs.StringVar(&config.ServerURL, "server", DefaultServerURL, "Base URL of the compression service.")
	fs.StringVar(&format, "format", "auto", "Target format id, or 'auto' to keep the original format.")
	fs.StringVar(&format, "f", "auto", "Shorthand for -format.")
	fs.StringVar(&config.DownloadDir, "download", "", "Save the compressed file into this directory.")
	fs.StringVar(&config.OutputFile, "output", "", "Write a JSON report of the outcome to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for -output.")
	fs.DurationVar(&config.Timeout, "timeout", 0, "Limit for a compression request (e.g. 2m). 0 waits indefinitely.")
	fs.DurationVar(&config.CatalogTimeout, "catalog-timeout", DefaultCatalogTimeout, "Limit for fetching the format list.")
	fs.Int64Var(&config.MaxSize, "max-size", DefaultMaxSize, "Advisory file size in bytes shown next to the input.")
	fs.BoolVar(&config.TUI, "tui", false, "Force the interactive dashboard.")
	fs.BoolVar(&config.REPL, "interactive", false, "Start the line-oriented interactive mode.")
	fs.BoolVar(&config.REPL, "i", false, "Shorthand for -interactive.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the outcome.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Theme, "theme", DefaultTheme, "Color theme: dark, light or none.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn or error.")
	fs.StringVar(&config.LogFile, "log-file", "", "Write logs to this file with rotation.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.StringVar(&config.OTLPEndpoint, "otlp-endpoint", "", "Export traces to this OTLP/HTTP endpoint (host:port).")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script: bash, zsh, fish or powershell.")
	fs.BoolVar(&config.Version, "version", false, "Print version information and exit.")
	fs.StringVar(&config.ConfigFile, "config", "", "Path to a YAML config file.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	path, explicit := resolveConfigPath(config.ConfigFile, fs)
	if path != "" {
		fc, err := LoadFile(path)
		switch {
		case err == nil:
			applyFileConfig(&config, &format, fc, fs)
			config.ConfigFile = path
		case explicit || !errors.Is(err, errConfigNotFound):
			return AppConfig{}, err
		}
	}

	applyEnvOverrides(&config, &format, fs)

	config.Format = catalog.ParseID(format)
	config.Files = fs.Args()

	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the configuration for values that cannot work.
func (c AppConfig) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewConfigError("server url %q must be an absolute http or https URL", c.ServerURL)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout must not be negative, got %s", c.Timeout)
	}
	if c.CatalogTimeout <= 0 {
		return apperrors.NewConfigError("catalog timeout must be positive, got %s", c.CatalogTimeout)
	}
	if c.MaxSize < 0 {
		return apperrors.NewConfigError("max size must not be negative, got %d", c.MaxSize)
	}
	if !slices.Contains(ui.ThemeNames, c.Theme) {
		return apperrors.NewConfigError("unknown theme %q (want one of %s)", c.Theme, strings.Join(ui.ThemeNames, ", "))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q (want one of %s)", c.Completion, strings.Join(CompletionShells, ", "))
	}
	if c.TUI && c.REPL {
		return apperrors.NewConfigError("-tui and -interactive cannot be combined")
	}
	if c.TUI && len(c.Files) > 0 {
		return apperrors.NewConfigError("-tui does not take file arguments")
	}
	return nil
}

// Level returns the zerolog level for LogLevel, defaulting to info.
func (c AppConfig) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

// String renders the configuration for debug logs.
func (c AppConfig) String() string {
	return fmt.Sprintf("server=%s format=%s timeout=%s catalog-timeout=%s theme=%s config=%q",
		c.ServerURL, formatLabel(c.Format), c.Timeout, c.CatalogTimeout, c.Theme, c.ConfigFile)
}

func formatLabel(id string) string {
	return catalog.Describe(id).Label()
}
