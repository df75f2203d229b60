// Package config loads the flexi client configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Journal JournalConfig `yaml:"journal"`
}

// ServerConfig locates the Flexi server and company.
type ServerConfig struct {
	URL      string            `yaml:"url"`     // e.g. https://demo.flexibee.eu:5434
	Company  string            `yaml:"company"` // company database identifier
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Timeout  time.Duration     `yaml:"timeout"`
	Headers  map[string]string `yaml:"headers"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics. A CLI process has no scrape
// endpoint, so metrics are written to a node_exporter textfile on exit.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

// JournalConfig configures the local request journal. Empty Path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file. ${VAR} references are expanded
// and FLEXI_* environment variables override file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	FLEXI_URL, FLEXI_COMPANY, FLEXI_USERNAME, FLEXI_PASSWORD, FLEXI_TIMEOUT,
//	FLEXI_LOG_LEVEL, FLEXI_LOG_FORMAT, FLEXI_METRICS_ENABLED,
//	FLEXI_METRICS_TEXTFILE, FLEXI_JOURNAL
func LoadFromEnv() (*Config, error) {
	var cfg Config

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFallback loads path when it is set, otherwise the environment.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if os.Getenv("FLEXI_URL") != "" {
		return LoadFromEnv()
	}
	return nil, fmt.Errorf("no configuration found: pass --config or set FLEXI_URL")
}

// applyEnvOverrides applies FLEXI_* environment variables to the config.
// Environment variables always override file-based configuration. A value
// that does not parse is an error.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("FLEXI_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("FLEXI_COMPANY"); v != "" {
		cfg.Server.Company = v
	}
	if v := os.Getenv("FLEXI_USERNAME"); v != "" {
		cfg.Server.Username = v
	}
	if v := os.Getenv("FLEXI_PASSWORD"); v != "" {
		cfg.Server.Password = v
	}
	if v := os.Getenv("FLEXI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FLEXI_TIMEOUT: invalid duration %q", v)
		}
		cfg.Server.Timeout = d
	}

	if v := os.Getenv("FLEXI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FLEXI_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("FLEXI_METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FLEXI_METRICS_ENABLED: invalid boolean %q", v)
		}
		cfg.Metrics.Enabled = b
	}
	if v := os.Getenv("FLEXI_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}

	if v := os.Getenv("FLEXI_JOURNAL"); v != "" {
		cfg.Journal.Path = v
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Textfile == "" {
		cfg.Metrics.Textfile = "flexi.prom"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	u, err := url.Parse(cfg.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url must be an absolute URL, got %q", cfg.Server.URL)
	}
	if cfg.Server.Company == "" {
		return fmt.Errorf("server.company is required")
	}
	if cfg.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}
	return nil
}
