// Package config manages process configuration: listen address, cache and
// timeout tuning, where channel settings are kept, and logging.
//
// Channel settings (API key, channel id, filter mode) are not part of this
// package; they are entered through the setup page and live in a
// settings.Store.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Settings backends.
const (
	BackendEnv  = "env"
	BackendFile = "file"
)

// Duration is a time.Duration that reads "90s" style strings or integer
// nanoseconds from JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string like \"6h\" or nanoseconds: %s", b)
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds all process configuration.
type Config struct {
	// Addr is the listen address (default "0.0.0.0:3000")
	Addr string `json:"addr"`

	// CacheTTL is how long a refreshed catalog is served (default 6h)
	CacheTTL Duration `json:"cache_ttl"`
	// FetchTimeout bounds one catalog refresh (default 2m)
	FetchTimeout Duration `json:"fetch_timeout"`
	// RequestTimeout bounds every other HTTP request (default 30s)
	RequestTimeout Duration `json:"request_timeout"`
	// APITimeout bounds a single YouTube Data API call (default 30s)
	APITimeout Duration `json:"api_timeout"`
	// MaxPages caps playlist pagination (default 1000, 50 uploads per page)
	MaxPages int `json:"max_pages"`
	// PollInterval is how often the player re-reads the catalog (default 1h)
	PollInterval Duration `json:"poll_interval"`

	// SettingsBackend is "env" (default) or "file"
	SettingsBackend string `json:"settings_backend"`
	// SettingsPath is the settings file for the "file" backend
	SettingsPath string `json:"settings_path"`

	// LogLevel is a logrus level name (default "info")
	LogLevel string `json:"log_level"`
	// LogFormat is "text" (default) or "json"
	LogFormat string `json:"log_format"`

	// OpenBrowser opens the setup page on start when nothing is configured
	OpenBrowser bool `json:"open_browser"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:            "0.0.0.0:3000",
		CacheTTL:        Duration(6 * time.Hour),
		FetchTimeout:    Duration(2 * time.Minute),
		RequestTimeout:  Duration(30 * time.Second),
		APITimeout:      Duration(30 * time.Second),
		MaxPages:        1000,
		PollInterval:    Duration(time.Hour),
		SettingsBackend: BackendEnv,
		LogLevel:        "info",
		LogFormat:       "text",
		OpenBrowser:     true,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Config file is optional
	if err := cfg.loadFromFile(configPaths()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configPaths lists the config file locations in lookup order. BRB_CONFIG,
// when set, is the only candidate.
func configPaths() []string {
	if p := os.Getenv("BRB_CONFIG"); p != "" {
		return []string{p}
	}
	paths := []string{"brbshorts.json"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "brbshorts", "brbshorts.json"))
	}
	return paths
}

// loadFromFile reads the first existing file in paths.
func (c *Config) loadFromFile(paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	return os.ErrNotExist
}

// loadFromEnv overrides config with BRB_* environment variables. Malformed
// values are reported rather than ignored.
func (c *Config) loadFromEnv() error {
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = Duration(d)
		}
	}

	str("BRB_ADDR", &c.Addr)
	if v := os.Getenv("BRB_PORT"); v != "" {
		host, _, err := net.SplitHostPort(c.Addr)
		if err != nil {
			host = ""
		}
		c.Addr = net.JoinHostPort(host, v)
	}
	dur("BRB_CACHE_TTL", &c.CacheTTL)
	dur("BRB_FETCH_TIMEOUT", &c.FetchTimeout)
	dur("BRB_REQUEST_TIMEOUT", &c.RequestTimeout)
	dur("BRB_API_TIMEOUT", &c.APITimeout)
	dur("BRB_POLL_INTERVAL", &c.PollInterval)
	if v := os.Getenv("BRB_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("BRB_MAX_PAGES: %w", err))
		} else {
			c.MaxPages = n
		}
	}
	str("BRB_SETTINGS_BACKEND", &c.SettingsBackend)
	str("BRB_SETTINGS_PATH", &c.SettingsPath)
	str("BRB_LOG_LEVEL", &c.LogLevel)
	str("BRB_LOG_FORMAT", &c.LogFormat)
	if v := os.Getenv("BRB_OPEN_BROWSER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("BRB_OPEN_BROWSER: %w", err))
		} else {
			c.OpenBrowser = b
		}
	}

	return errors.Join(errs...)
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("addr %q: %w", c.Addr, err)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive")
	}
	if c.PollInterval < Duration(time.Minute) {
		return fmt.Errorf("poll_interval must be at least 1m")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive")
	}
	switch strings.ToLower(c.SettingsBackend) {
	case BackendEnv, BackendFile:
		c.SettingsBackend = strings.ToLower(c.SettingsBackend)
	default:
		return fmt.Errorf("settings_backend must be %q or %q, got %q", BackendEnv, BackendFile, c.SettingsBackend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return nil
}

// Port returns the port part of Addr.
func (c *Config) Port() string {
	_, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return ""
	}
	return port
}
