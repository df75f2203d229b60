package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flexi/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flexi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  url: "https://demo.flexibee.eu:5434"
  company: "demo"
  username: "winstrom"
  password: "winstrom"
  timeout: 15s
  headers:
    X-Client: flexi-cli

logging:
  level: debug
  format: console

journal:
  path: /tmp/flexi-journal.db
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://demo.flexibee.eu:5434", cfg.Server.URL)
	assert.Equal(t, "demo", cfg.Server.Company)
	assert.Equal(t, "winstrom", cfg.Server.Username)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, map[string]string{"X-Client": "flexi-cli"}, cfg.Server.Headers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/tmp/flexi-journal.db", cfg.Journal.Path)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  url: "http://localhost:5434"
  company: "demo"
metrics:
  enabled: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "flexi.prom", cfg.Metrics.Textfile)
	assert.Empty(t, cfg.Journal.Path)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_FLEXI_SECRET", "s3cret")
	path := writeConfig(t, `
server:
  url: "http://localhost:5434"
  company: "demo"
  password: "${TEST_FLEXI_SECRET}"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Server.Password)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLEXI_COMPANY", "prod")
	t.Setenv("FLEXI_TIMEOUT", "5s")
	t.Setenv("FLEXI_LOG_LEVEL", "warn")
	t.Setenv("FLEXI_METRICS_ENABLED", "true")
	t.Setenv("FLEXI_METRICS_TEXTFILE", "/var/lib/node_exporter/flexi.prom")
	path := writeConfig(t, `
server:
  url: "http://localhost:5434"
  company: "demo"
  timeout: 10s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Server.Company)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/var/lib/node_exporter/flexi.prom", cfg.Metrics.Textfile)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing url",
			content: "server:\n  company: demo\n",
			wantErr: "server.url is required",
		},
		{
			name:    "relative url",
			content: "server:\n  url: demo.flexibee.eu\n  company: demo\n",
			wantErr: "absolute URL",
		},
		{
			name:    "missing company",
			content: "server:\n  url: http://localhost\n",
			wantErr: "server.company is required",
		},
		{
			name:    "bad log format",
			content: "server:\n  url: http://localhost\n  company: demo\nlogging:\n  format: xml\n",
			wantErr: "logging.format",
		},
		{
			name:    "invalid yaml",
			content: "server: [",
			wantErr: "parse config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.content))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_InvalidEnvOverrides(t *testing.T) {
	testCases := []struct {
		name    string
		env     string
		value   string
		wantErr string
	}{
		{name: "timeout", env: "FLEXI_TIMEOUT", value: "30", wantErr: "FLEXI_TIMEOUT"},
		{name: "metrics enabled", env: "FLEXI_METRICS_ENABLED", value: "ano", wantErr: "FLEXI_METRICS_ENABLED"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.env, tc.value)
			path := writeConfig(t, "server:\n  url: http://localhost\n  company: demo\n")

			_, err := config.Load(path)
			assert.ErrorContains(t, err, tc.wantErr)

			t.Setenv("FLEXI_URL", "http://localhost")
			t.Setenv("FLEXI_COMPANY", "demo")
			_, err = config.LoadFromEnv()
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoadWithFallback(t *testing.T) {
	t.Setenv("FLEXI_URL", "")
	_, err := config.LoadWithFallback("")
	assert.ErrorContains(t, err, "no configuration found")

	t.Setenv("FLEXI_URL", "https://demo.flexibee.eu")
	t.Setenv("FLEXI_COMPANY", "demo")
	cfg, err := config.LoadWithFallback("")
	require.NoError(t, err)
	assert.Equal(t, "https://demo.flexibee.eu", cfg.Server.URL)
}
