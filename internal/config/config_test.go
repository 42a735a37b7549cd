package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/squash/internal/errors"
)

// isolate points the default config location at an empty directory and
// clears SQUASH_CONFIG.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv(EnvPrefix+"CONFIG", "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParseConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := ParseConfig("squash", nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Empty(t, cfg.Format, "auto is the empty id")
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, DefaultCatalogTimeout, cfg.CatalogTimeout)
	assert.Equal(t, int64(DefaultMaxSize), cfg.MaxSize)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.Empty(t, cfg.Files)
	assert.Empty(t, cfg.ConfigFile)
}

func TestParseConfig_Flags(t *testing.T) {
	isolate(t)

	cfg, err := ParseConfig("squash", []string{
		"-server", "https://squash.example.com",
		"-f", "PDF",
		"-o", "report.json",
		"-timeout", "90s",
		"-download", "out",
		"-q",
		"scan.pdf", "extra.pdf",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "https://squash.example.com", cfg.ServerURL)
	assert.Equal(t, "pdf", cfg.Format)
	assert.Equal(t, "report.json", cfg.OutputFile)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "out", cfg.DownloadDir)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, []string{"scan.pdf", "extra.pdf"}, cfg.Files)
}

func TestParseConfig_Help(t *testing.T) {
	isolate(t)

	var stderr bytes.Buffer
	_, err := ParseConfig("squash", []string{"-h"}, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, stderr.String(), "-server")
}

func TestParseConfig_UnknownFlag(t *testing.T) {
	isolate(t)

	_, err := ParseConfig("squash", []string{"-bogus"}, &bytes.Buffer{})
	var configErr apperrors.ConfigError
	assert.True(t, errors.As(err, &configErr), "got %v", err)
}

func TestParseConfig_Priority(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "squash.yaml")
	writeFile(t, path, `
server: http://from-file:8080
format: zip
theme: light
timeout: 30s
max_size: 2048
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := ParseConfig("squash", []string{"-config", path}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "http://from-file:8080", cfg.ServerURL)
		assert.Equal(t, "zip", cfg.Format)
		assert.Equal(t, "light", cfg.Theme)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, int64(2048), cfg.MaxSize)
		assert.Equal(t, path, cfg.ConfigFile)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv(EnvPrefix+"SERVER", "http://from-env:8080")
		t.Setenv(EnvPrefix+"FORMAT", "auto")
		cfg, err := ParseConfig("squash", []string{"-config", path}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "http://from-env:8080", cfg.ServerURL)
		assert.Empty(t, cfg.Format)
		assert.Equal(t, "light", cfg.Theme)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv(EnvPrefix+"SERVER", "http://from-env:8080")
		t.Setenv(EnvPrefix+"TIMEOUT", "5s")
		cfg, err := ParseConfig("squash", []string{"-config", path, "-server", "http://from-flag:8080"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "http://from-flag:8080", cfg.ServerURL)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("SQUASH_CONFIG selects the file", func(t *testing.T) {
		t.Setenv(EnvPrefix+"CONFIG", path)
		cfg, err := ParseConfig("squash", nil, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "zip", cfg.Format)
	})
}

func TestParseConfig_DefaultFileLocation(t *testing.T) {
	isolate(t)
	path := DefaultConfigPath()
	require.NotEmpty(t, path)
	writeFile(t, path, "format: pdf\n")

	cfg, err := ParseConfig("squash", nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "pdf", cfg.Format)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestParseConfig_FileErrors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: red\n"},
		{"bad duration", "timeout: soon\n"},
		{"bad yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			writeFile(t, path, tt.content)
			_, err := ParseConfig("squash", []string{"-config", path}, &bytes.Buffer{})
			var configErr apperrors.ConfigError
			assert.True(t, errors.As(err, &configErr), "got %v", err)
		})
	}

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := ParseConfig("squash", []string{"-config", filepath.Join(dir, "missing.yaml")}, &bytes.Buffer{})
		assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
	})
}

func TestLoadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")
	fc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Nil(t, fc.Server)
}

func TestEnvOverrides_Booleans(t *testing.T) {
	isolate(t)
	t.Setenv(EnvPrefix+"QUIET", "yes")
	t.Setenv(EnvPrefix+"NO_COLOR", "1")
	t.Setenv(EnvPrefix+"TUI", "maybe")

	cfg, err := ParseConfig("squash", nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, cfg.Quiet)
	assert.True(t, cfg.NoColor)
	assert.False(t, cfg.TUI, "unrecognized values keep the default")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	valid := AppConfig{
		ServerURL:      DefaultServerURL,
		CatalogTimeout: DefaultCatalogTimeout,
		MaxSize:        DefaultMaxSize,
		Theme:          DefaultTheme,
		LogLevel:       DefaultLogLevel,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"ftp scheme", func(c *AppConfig) { c.ServerURL = "ftp://host" }},
		{"relative url", func(c *AppConfig) { c.ServerURL = "/api" }},
		{"negative timeout", func(c *AppConfig) { c.Timeout = -time.Second }},
		{"zero catalog timeout", func(c *AppConfig) { c.CatalogTimeout = 0 }},
		{"negative max size", func(c *AppConfig) { c.MaxSize = -1 }},
		{"unknown theme", func(c *AppConfig) { c.Theme = "neon" }},
		{"unknown log level", func(c *AppConfig) { c.LogLevel = "loud" }},
		{"unknown shell", func(c *AppConfig) { c.Completion = "tcsh" }},
		{"tui and repl", func(c *AppConfig) { c.TUI, c.REPL = true, true }},
		{"tui with files", func(c *AppConfig) { c.TUI, c.Files = true, []string{"a"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			var configErr apperrors.ConfigError
			assert.True(t, errors.As(cfg.Validate(), &configErr))
		})
	}
}
