package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Given: no config file at all
	cfg, err := Load("")

	// Then: every field carries its default
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "./web", cfg.StaticDir)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "tic-tac-toe", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Telemetry.Enabled())
}

func TestLoad_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoad_File(t *testing.T) {
	// Given: a YAML file overriding some fields
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
log-level: debug
http-addr: ":7070"
session-idle-timeout: 2m
telemetry:
  otlp-endpoint: "collector:4317"
  service-name: "ttt-test"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// When: loading it
	cfg, err := Load(path)

	// Then: file values win over defaults
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "collector:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, "ttt-test", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.Telemetry.Enabled())
	assert.Equal(t, "./web", cfg.StaticDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestMustLoad_PanicsOnBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: [unterminated\n"), 0o600))

	assert.Panics(t, func() { MustLoad(path) })
}
