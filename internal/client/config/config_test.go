package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, "c4at3_token", c.TokenKey)
	assert.Equal(t, "c4at3_user", c.UserKey)
	assert.Equal(t, "c4at3_history", c.HistoryKey)
	assert.Equal(t, 5, c.HistoryLimit)
	assert.Equal(t, time.Second, c.PollInterval)
	assert.Equal(t, 30, c.PollAttempts)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, filepath.Join(".c4at3", "client.db"), c.DatabasePath())
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url":  "https://json.example",
		"poll_interval": "3s",
		"data_dir":      "/tmp/json",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-a", "https://flag.example"})
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example", cfg.APIBaseURL, "flag beats JSON")
	assert.Equal(t, "/tmp/json", cfg.DataDir, "JSON beats default")
	assert.Equal(t, 3*time.Second, cfg.PollInterval, "unset flag keeps JSON value")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.APIBaseURL = "/api" }},
		{"ftp url", func(c *Config) { c.APIBaseURL = "ftp://x" }},
		{"no data dir", func(c *Config) { c.DataDir = "" }},
		{"no token key", func(c *Config) { c.TokenKey = "" }},
		{"zero history", func(c *Config) { c.HistoryLimit = 0 }},
		{"zero attempts", func(c *Config) { c.PollAttempts = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	_, err := LoadConfig([]string{"-a", "not a url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}
