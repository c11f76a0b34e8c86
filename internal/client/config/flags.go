package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/templetsolutions/c4at3-client/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL
//	-d string   data directory
//	-p int      analysis poll interval in seconds
//	-t int      request timeout in seconds
//	-l string   log level
//
// Only the flags listed above are picked out of args (flagx.FilterArgs), so
// -c/-config never reach this flag set.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, "-a", "-d", "-p", "-t", "-l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory of the local store")
	pollInterval := fs.Int("p", int(cfg.PollInterval.Seconds()), "analysis poll interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.PollInterval = time.Duration(*pollInterval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		}
	})
	return nil
}
