// Command aimm-server exposes schema validation, evaluation metrics and the
// toy demonstration over HTTP and WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"aimmkit/internal/app"
	"aimmkit/internal/cli"
	"aimmkit/internal/config"
	"aimmkit/internal/infrastructure"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("aimm-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file (defaults to $AIMM_CONFIG, ./config.yaml or ./configs/config.yaml)")
	if code, done := cli.ParseFlags(fs, args); done {
		return code
	}

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return cli.ExitFailure
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "logger error: %v\n", err)
		return cli.ExitFailure
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return cli.ExitFailure
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return cli.ExitFailure
	}
	return cli.ExitOK
}
