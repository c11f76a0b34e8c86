// Package config loads runtime configuration for the C⁴AT³ CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL (default http://127.0.0.1:8000)
//	-d string   data directory (default .c4at3)
//	-p int      analysis poll interval in seconds (default 1)
//	-t int      request timeout in seconds (default 15)
//	-l string   log level (default info)
//
// # JSON schema
//
// Durations are timex.Duration values, so either strings like "2s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.c4at3.example",
//	  "data_dir": "/var/lib/c4at3",
//	  "history_limit": 5,
//	  "poll_interval": "2s",
//	  "poll_attempts": 30,
//	  "request_timeout": "15s",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
//
// The package does not read environment variables.
package config
