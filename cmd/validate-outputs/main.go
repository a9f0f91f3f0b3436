// Command validate-outputs checks risk assessment records against the AIMM
// output schema. Without file arguments it validates three synthetic records
// and shows four expected failures.
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
	fs := flag.NewFlagSet("validate-outputs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fileList := fs.String("file", "", "comma separated record files (.json, .jsonl, .ndjson, .csv, .xlsx)")
	dir := fs.String("dir", "", "directory of record files")
	report := fs.String("report", "", "write a CSV report to this path")
	workers := fs.Int("workers", 0, "files validated concurrently (defaults to configuration)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: validate-outputs [-file a.json,b.csv] [-dir records/] [-report out.csv]\n\n")
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

	opts := cli.BatchOptions{Kind: services.KindOutputs, Files: *fileList, Dir: *dir, Report: *report}
	if !opts.HasInput() {
		if *report != "" {
			fmt.Fprintln(stderr, "-report requires -file or -dir")
			return cli.ExitUsage
		}
		return demonstrate(stdout, schema.NewOutputValidator())
	}

	n := cfg.Validation.Workers
	if *workers > 0 {
		n = *workers
	}
	svc, err := services.NewValidationService(nil, n, nil, logger)
	if err != nil {
		return cli.Fail(logger, "Failed to create validation service", err)
	}
	return cli.RunBatch(ctx, svc, opts, stdout, logger)
}

type example struct {
	title  string
	record domain.Record
}

func demonstrate(w io.Writer, v *schema.OutputValidator) int {
	valid := syntheticRecords()
	code := cli.ExitOK

	for i, ex := range valid {
		if i > 0 {
			fmt.Fprintln(w, cli.Rule)
		}
		fmt.Fprintf(w, "%s\n\n", ex.title)
		a, err := v.Validate(ex.record)
		if err != nil {
			fmt.Fprintf(w, "Validation failed: %v\n\n", err)
			code = cli.ExitFailure
			continue
		}
		fmt.Fprintln(w, schema.OutputPassedMessage(a))
		fmt.Fprint(w, "Sample validation successful.\n\n")
	}

	for _, ex := range invalidRecords(valid[0].record) {
		fmt.Fprintln(w, cli.Rule)
		fmt.Fprintf(w, "Demonstrating validation failure (%s)...\n\n", ex.title)
		a, err := v.Validate(ex.record)
		if err != nil {
			fmt.Fprintf(w, "Expected validation error: %v\n\n", err)
			continue
		}
		fmt.Fprintln(w, schema.OutputPassedMessage(a))
	}
	return code
}

// syntheticRecords are illustrative and are not real assessments
func syntheticRecords() []example {
	return []example{
		{
			title: "Validating synthetic output sample against AIMM output schema...",
			record: domain.Record{
				"risk_score":                0.72,
				"risk_level":                "medium",
				"evaluation_date":           "2025-12-28",
				"contributing_signal_types": []any{"social_sentiment", "market_volatility"},
			},
		},
		{
			title: "Validating low-risk synthetic output...",
			record: domain.Record{
				"risk_score":                0.18,
				"risk_level":                "low",
				"evaluation_date":           "2025-12-27T14:30:00",
				"contributing_signal_types": []any{"market_volatility"},
			},
		},
		{
			title: "Validating high-risk synthetic output...",
			record: domain.Record{
				"risk_score":      0.91,
				"risk_level":      "high",
				"evaluation_date": "2025-12-26",
				"contributing_signal_types": []any{
					"social_sentiment", "trading_volume", "news_sentiment", "microstructure",
				},
			},
		},
	}
}

func invalidRecords(base domain.Record) []example {
	with := func(field string, value any) domain.Record {
		r := base.Clone()
		r[field] = value
		return r
	}
	return []example{
		{title: "risk_score out of bounds", record: with(schema.FieldRiskScore, 1.5)},
		{title: "invalid risk_level", record: with(schema.FieldRiskLevel, "extreme")},
		{title: "invalid date format", record: with(schema.FieldEvaluationDate, "12/28/2025")},
		{title: "empty signal types", record: with(schema.FieldSignalTypes, []any{})},
	}
}
