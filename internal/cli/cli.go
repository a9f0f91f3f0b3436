package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"aimmkit/internal/config"
	"aimmkit/internal/infrastructure"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Rule is the separator printed between demonstration sections
const Rule = "======================================================================"

// Setup loads the configuration and builds a JSON logger on stderr
func Setup(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, infrastructure.NewLogger(stderr, cfg.Logging.Level), nil
}

// ParseFlags parses args into fs. It returns ExitOK with done set when help
// was requested, and ExitUsage for bad flags or stray positional arguments.
func ParseFlags(fs *flag.FlagSet, args []string) (code int, done bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK, true
		}
		return ExitUsage, true
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return ExitUsage, true
	}
	return ExitOK, false
}

// Fail logs err and returns ExitFailure
func Fail(logger *slog.Logger, msg string, err error) int {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	infrastructure.WithError(logger, err).Error(msg)
	return ExitFailure
}
