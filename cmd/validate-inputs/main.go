// Command validate-inputs checks feature samples against the AIMM input
// schema. Without file arguments it walks through a synthetic sample and two
// expected failures.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"aimmkit/internal/cli"
	"aimmkit/internal/schema"
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
	fs := flag.NewFlagSet("validate-inputs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fileList := fs.String("file", "", "comma separated sample files (.json, .jsonl, .ndjson, .csv, .xlsx)")
	dir := fs.String("dir", "", "directory of sample files")
	schemaFile := fs.String("schema", "", "YAML or JSON input schema (defaults to the built-in 17 feature schema)")
	strict := fs.Bool("strict", false, "reject features the schema does not declare")
	report := fs.String("report", "", "write a CSV report to this path")
	workers := fs.Int("workers", 0, "files validated concurrently (defaults to configuration)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: validate-inputs [-file a.json,b.csv] [-dir samples/] [-schema schema.yaml] [-strict] [-report out.csv]\n\n")
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

	path := cfg.Validation.SchemaFile
	if *schemaFile != "" {
		path = *schemaFile
	}
	inputs := schema.DefaultInputSchema()
	if path != "" {
		if inputs, err = schema.LoadInputSchema(path); err != nil {
			return cli.Fail(logger, "Failed to load input schema", err)
		}
	}
	inputs = inputs.WithStrict(cfg.Validation.Strict || *strict)

	n := cfg.Validation.Workers
	if *workers > 0 {
		n = *workers
	}
	svc, err := services.NewValidationService(inputs, n, nil, logger)
	if err != nil {
		return cli.Fail(logger, "Invalid input schema", err)
	}

	opts := cli.BatchOptions{Kind: services.KindInputs, Files: *fileList, Dir: *dir, Report: *report}
	if opts.HasInput() {
		return cli.RunBatch(ctx, svc, opts, stdout, logger)
	}
	if *report != "" {
		fmt.Fprintln(stderr, "-report requires -file or -dir")
		return cli.ExitUsage
	}
	return demonstrate(stdout, inputs)
}

// demonstrate validates the synthetic sample, then shows a missing feature
// and a wrongly typed feature being rejected
func demonstrate(w io.Writer, inputs *schema.InputSchema) int {
	sample := syntheticSample()

	fmt.Fprint(w, "Validating minimal synthetic sample against AIMM input schema...\n\n")
	code := cli.ExitOK
	if err := inputs.Validate(sample); err != nil {
		fmt.Fprintf(w, "\nValidation failed: %v\n", err)
		code = cli.ExitFailure
	} else {
		fmt.Fprintln(w, schema.InputPassedMessage(sample))
		fmt.Fprintln(w, "\nSample validation successful.")
	}

	incomplete := sample.Clone()
	delete(incomplete, "close_price")
	expectFailure(w, inputs, "missing feature", incomplete)

	wrongType := sample.Clone()
	wrongType["volume"] = 2500000.5
	expectFailure(w, inputs, "wrong type", wrongType)

	return code
}

func expectFailure(w io.Writer, inputs *schema.InputSchema, title string, sample domain.Sample) {
	fmt.Fprintf(w, "\n%s\nDemonstrating validation failure (%s)...\n\n", cli.Rule, title)
	if err := inputs.Validate(sample); err != nil {
		fmt.Fprintf(w, "Expected validation error: %v\n", err)
		return
	}
	fmt.Fprintln(w, schema.InputPassedMessage(sample))
}

// syntheticSample is purely illustrative and reflects no real market
func syntheticSample() domain.Sample {
	return domain.Sample{
		"reddit_sentiment_score":     0.45,
		"twitter_sentiment_score":    0.52,
		"stocktwits_sentiment_score": 0.38,
		"social_volume_normalized":   0.75,
		"open_price":                 145.30,
		"high_price":                 147.50,
		"low_price":                  144.80,
		"close_price":                146.25,
		"volume":                     2500000,
		"price_range":                2.70,
		"bid_ask_spread":             0.05,
		"trades_count":               12500,
		"large_trade_indicator":      false,
		"news_sentiment_score":       0.55,
		"news_volume":                23,
		"day_of_week":                2,
		"is_trading_day":             true,
	}
}
