package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/squash/internal/errors"
)

var errConfigNotFound = errors.New("config file not found")

// FileConfig mirrors the keys accepted in the YAML config file. Absent keys
// leave the default in place.
type FileConfig struct {
	Server         *string `yaml:"server"`
	Format         *string `yaml:"format"`
	DownloadDir    *string `yaml:"download_dir"`
	Timeout        *string `yaml:"timeout"`
	CatalogTimeout *string `yaml:"catalog_timeout"`
	MaxSize        *int64  `yaml:"max_size"`
	Theme          *string `yaml:"theme"`
	NoColor        *bool   `yaml:"no_color"`
	LogLevel       *string `yaml:"log_level"`
	LogFile        *string `yaml:"log_file"`
	MetricsAddr    *string `yaml:"metrics_addr"`
	OTLPEndpoint   *string `yaml:"otlp_endpoint"`

	timeout        time.Duration
	catalogTimeout time.Duration
}

// DefaultConfigPath returns the per-user config file location, e.g.
// $XDG_CONFIG_HOME/squash/config.yaml. It is empty when the user config
// directory is unknown.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "squash", "config.yaml")
}

// LoadFile reads and validates a YAML config file. Unknown keys are errors.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, errors.Join(errConfigNotFound, apperrors.NewConfigError("config file %s does not exist", path))
		}
		return FileConfig{}, apperrors.NewConfigError("failed to read config file %s: %v", path, err)
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("failed to parse config file %s: %v", path, err)
	}

	if fc.Timeout != nil {
		if fc.timeout, err = time.ParseDuration(*fc.Timeout); err != nil {
			return FileConfig{}, apperrors.NewConfigError("config file %s: invalid timeout %q", path, *fc.Timeout)
		}
	}
	if fc.CatalogTimeout != nil {
		if fc.catalogTimeout, err = time.ParseDuration(*fc.CatalogTimeout); err != nil {
			return FileConfig{}, apperrors.NewConfigError("config file %s: invalid catalog_timeout %q", path, *fc.CatalogTimeout)
		}
	}
	return fc, nil
}

// resolveConfigPath picks the config file: -config, then SQUASH_CONFIG, then
// the default location. explicit is false only for the default location,
// which may be missing.
func resolveConfigPath(flagValue string, fs *flag.FlagSet) (path string, explicit bool) {
	if isFlagSet(fs, "config") && flagValue != "" {
		return flagValue, true
	}
	if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
		return v, true
	}
	return DefaultConfigPath(), false
}

// applyFileConfig copies file values into config for flags not set on the
// command line.
func applyFileConfig(config *AppConfig, format *string, fc FileConfig, fs *flag.FlagSet) {
	setString := func(dst *string, v *string, flags ...string) {
		if v != nil && !isFlagSetAny(fs, flags...) {
			*dst = *v
		}
	}
	setString(&config.ServerURL, fc.Server, "server")
	setString(format, fc.Format, "format", "f")
	setString(&config.DownloadDir, fc.DownloadDir, "download")
	setString(&config.Theme, fc.Theme, "theme")
	setString(&config.LogLevel, fc.LogLevel, "log-level")
	setString(&config.LogFile, fc.LogFile, "log-file")
	setString(&config.MetricsAddr, fc.MetricsAddr, "metrics-addr")
	setString(&config.OTLPEndpoint, fc.OTLPEndpoint, "otlp-endpoint")

	if fc.Timeout != nil && !isFlagSet(fs, "timeout") {
		config.Timeout = fc.timeout
	}
	if fc.CatalogTimeout != nil && !isFlagSet(fs, "catalog-timeout") {
		config.CatalogTimeout = fc.catalogTimeout
	}
	if fc.MaxSize != nil && !isFlagSet(fs, "max-size") {
		config.MaxSize = *fc.MaxSize
	}
	if fc.NoColor != nil && !isFlagSet(fs, "no-color") {
		config.NoColor = *fc.NoColor
	}
}
