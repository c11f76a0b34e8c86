package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/templetsolutions/c4at3-client/internal/client/cli"
	"github.com/templetsolutions/c4at3-client/internal/client/config"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Logs go to stderr so they never mix with REPL output.
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			log.Warn(context.Background(), "shutdown", "error", err)
		}
	}()

	app.Run(ctx)
}
