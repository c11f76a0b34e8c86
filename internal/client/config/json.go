package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/templetsolutions/c4at3-client/internal/flagx"
	"github.com/templetsolutions/c4at3-client/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Fields are
// pointers so keys missing from the file keep their earlier value.
// Durations use timex.Duration: "1s" or integer nanoseconds.
type JSONConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	DataDir        *string         `json:"data_dir"`
	DatabaseFile   *string         `json:"database_file"`
	TokenKey       *string         `json:"token_key"`
	UserKey        *string         `json:"user_key"`
	HistoryKey     *string         `json:"history_key"`
	HistoryLimit   *int            `json:"history_limit"`
	PollInterval   *timex.Duration `json:"poll_interval"`
	PollAttempts   *int            `json:"poll_attempts"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
}

// parseJSON overlays Config with values loaded from the file named by -c or
// -config. Without either flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc *JSONConfig) apply(cfg *Config) {
	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.DatabaseFile, jc.DatabaseFile)
	setIf(&cfg.TokenKey, jc.TokenKey)
	setIf(&cfg.UserKey, jc.UserKey)
	setIf(&cfg.HistoryKey, jc.HistoryKey)
	setIf(&cfg.HistoryLimit, jc.HistoryLimit)
	setIf(&cfg.PollAttempts, jc.PollAttempts)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	if jc.PollInterval != nil {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
