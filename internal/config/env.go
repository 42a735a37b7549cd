// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the SQUASH_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(c *AppConfig, format *string, v string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// String overrides
	{"SERVER", []string{"server"}, func(c *AppConfig, _ *string, v string) {
		c.ServerURL = v
	}},
	{"FORMAT", []string{"format", "f"}, func(_ *AppConfig, f *string, v string) {
		*f = v
	}},
	{"DOWNLOAD", []string{"download"}, func(c *AppConfig, _ *string, v string) {
		c.DownloadDir = v
	}},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, _ *string, v string) {
		c.OutputFile = v
	}},
	{"THEME", []string{"theme"}, func(c *AppConfig, _ *string, v string) {
		c.Theme = v
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, _ *string, v string) {
		c.LogLevel = v
	}},
	{"LOG_FILE", []string{"log-file"}, func(c *AppConfig, _ *string, v string) {
		c.LogFile = v
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, _ *string, v string) {
		c.MetricsAddr = v
	}},
	{"OTLP_ENDPOINT", []string{"otlp-endpoint"}, func(c *AppConfig, _ *string, v string) {
		c.OTLPEndpoint = v
	}},

	// Numeric and duration overrides
	{"MAX_SIZE", []string{"max-size"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxSize = parsed
		}
	}},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},
	{"CATALOG_TIMEOUT", []string{"catalog-timeout"}, func(c *AppConfig, _ *string, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.CatalogTimeout = parsed
		}
	}},

	// Boolean overrides
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, _ *string, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, _ *string, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, _ *string, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
//
// Supported environment variables (all prefixed with SQUASH_):
//   - SERVER, FORMAT, DOWNLOAD, OUTPUT, THEME, LOG_LEVEL, LOG_FILE,
//     METRICS_ADDR, OTLP_ENDPOINT, MAX_SIZE, TIMEOUT, CATALOG_TIMEOUT,
//     QUIET, NO_COLOR, TUI
func applyEnvOverrides(config *AppConfig, format *string, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, format, val)
		}
	}
}
