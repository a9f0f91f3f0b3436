// Command toy-demo walks through the synthetic AIMM workflow: generate
// features, validate them, score, bin, and validate the assessment.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aimmkit/internal/cli"
	"aimmkit/internal/demo"
	"aimmkit/internal/services"
	"aimmkit/pkg/contracts/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("toy-demo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.Uint64("seed", 0, "random seed (defaults to configuration, 42)")
	dateFlag := fs.String("date", "", "evaluation date as YYYY-MM-DD (defaults to today)")
	asJSON := fs.Bool("json", false, "print the final assessment as JSON")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: toy-demo [-seed 42] [-date 2025-12-28] [-json]\n\n")
		fs.PrintDefaults()
	}
	if code, done := cli.ParseFlags(fs, args); done {
		return code
	}

	cfg, logger, err := cli.Setup(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return cli.ExitFailure
	}

	s := cfg.Demo.Seed
	if isSet(fs, "seed") {
		s = *seed
	}
	raw := cfg.Demo.Date
	if *dateFlag != "" {
		raw = *dateFlag
	}
	var date time.Time
	if raw != "" {
		if date, err = time.Parse(domain.DateLayout, raw); err != nil {
			fmt.Fprintf(stderr, "invalid -date %q: expected YYYY-MM-DD\n", raw)
			return cli.ExitUsage
		}
	}

	svc := services.NewDemoService(nil, logger)

	if *asJSON {
		result, err := svc.Run(ctx, s, date, nil)
		if err != nil {
			return cli.Fail(logger, "Demonstration failed", err)
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Assessment); err != nil {
			return cli.Fail(logger, "Failed to encode assessment", err)
		}
		return cli.ExitOK
	}

	console := demo.NewConsoleReporter(stdout)
	console.Header()
	if _, err := svc.Run(ctx, s, date, console); err != nil {
		return cli.Fail(logger, "Demonstration failed", err)
	}
	console.Footer()
	return cli.ExitOK
}

func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
