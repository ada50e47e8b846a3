// Package config provides reading of bodik-mcp configuration.
// Settings are layered: built-in defaults, then an optional YAML file
// (local .bodik-mcp/config.yaml if it exists, otherwise
// ~/.bodik-mcp/config.yaml), then environment variables.
// The environment always wins so a deployment can retarget the upstream
// API without touching files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrInvalidValue is returned when a config value is invalid.
var ErrInvalidValue = errors.New("invalid config value")

// Defaults applied when not configured.
const (
	DefaultBaseURL = "https://wapi.bodik.jp"
	DefaultTimeout = 30 * time.Second
)

// Validation bounds for the request timeout.
const (
	MinTimeout = 1 * time.Second
	MaxTimeout = 10 * time.Minute
)

// Config contains configuration for bodik-mcp.
type Config struct {
	// BaseURL is the BODIK API endpoint. Override to target a
	// non-production API instance.
	BaseURL string `yaml:"base_url,omitempty" env:"BODIK_API_BASE"`

	// Timeout bounds each outbound HTTP request.
	Timeout time.Duration `yaml:"timeout,omitempty" env:"BODIK_HTTP_TIMEOUT"`
}

// Validate checks that all configured values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: base_url must be an absolute URL, got %q",
				ErrInvalidValue, c.BaseURL)
		}
	}
	if c.Timeout != 0 && (c.Timeout < MinTimeout || c.Timeout > MaxTimeout) {
		return fmt.Errorf("%w: timeout must be between %s and %s, got %s",
			ErrInvalidValue, MinTimeout, MaxTimeout, c.Timeout)
	}
	return nil
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(".bodik-mcp", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file:
// ~/.bodik-mcp/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bodik-mcp", "config.yaml")
}

// Load reads configuration: defaults, then the local file if it exists
// (otherwise the global file), then environment overrides.
func Load() (*Config, error) {
	path := GlobalPath()
	if _, err := os.Stat(LocalPath()); err == nil {
		path = LocalPath()
	}
	return LoadFile(path)
}

// LoadFile reads configuration from a specific file path, applying
// defaults first and environment overrides last. A missing file is not
// an error; the defaults and environment still apply.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("malformed config file %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
