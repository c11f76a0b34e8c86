package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the C⁴AT³ CLI.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] the API paths are resolved against.
//   - DataDir / DatabaseFile: where the local SQLite store lives.
//   - TokenKey, UserKey, HistoryKey: storage keys of the session and history.
//   - HistoryLimit: analyses kept per user.
//   - PollInterval / PollAttempts: how asynchronous analyses are awaited.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel / LogFormat: debug|info|warn|error and text|json.
type Config struct {
	APIBaseURL     string
	DataDir        string
	DatabaseFile   string
	TokenKey       string
	UserKey        string
	HistoryKey     string
	HistoryLimit   int
	PollInterval   time.Duration
	PollAttempts   int
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.DataDir = ".c4at3"
	c.DatabaseFile = "client.db"
	c.TokenKey = "c4at3_token"
	c.UserKey = "c4at3_user"
	c.HistoryKey = "c4at3_history"
	c.HistoryLimit = 5
	c.PollInterval = time.Second
	c.PollAttempts = 30
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// DatabasePath joins DataDir and DatabaseFile.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api base url %q must be an absolute http(s) url", c.APIBaseURL))
	}
	if c.DataDir == "" || c.DatabaseFile == "" {
		errs = append(errs, errors.New("data dir and database file must be set"))
	}
	if c.TokenKey == "" || c.UserKey == "" || c.HistoryKey == "" {
		errs = append(errs, errors.New("storage keys must be set"))
	}
	if c.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit))
	}
	if c.PollInterval <= 0 || c.PollAttempts < 1 {
		errs = append(errs, errors.New("poll interval and attempts must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.LogFormat))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
