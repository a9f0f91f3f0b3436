// Command compute-metrics evaluates predictions against ground truth.
// Without -file it runs the synthetic demonstration set and the perfect
// prediction edge case.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"aimmkit/internal/cli"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/evaluation"
	"aimmkit/internal/exporter"
	"aimmkit/internal/services"
	"aimmkit/internal/validation"
	"aimmkit/pkg/contracts/domain"
)

var dash = strings.Repeat("-", len(cli.Rule))

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compute-metrics", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "evaluation set (.json, .yaml, .yml or .csv)")
	out := fs.String("out", "", "write the report to this path (.json, .csv or .xlsx)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: compute-metrics [-file set.json] [-out report.xlsx]\n\n")
		fs.PrintDefaults()
	}
	if code, done := cli.ParseFlags(fs, args); done {
		return code
	}

	_, logger, err := cli.Setup(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return cli.ExitFailure
	}

	if *file == "" {
		if *out != "" {
			fmt.Fprintln(stderr, "-out requires -file")
			return cli.ExitUsage
		}
		return demonstrate(stdout)
	}

	fv := validation.NewFileValidator(logger)
	if err := fv.ValidateFile(*file); err != nil {
		return cli.Fail(logger, "Evaluation set rejected", err)
	}
	if *out != "" {
		if err := fv.ValidateOutputFile(*out); err != nil {
			return cli.Fail(logger, "Report path rejected", err)
		}
	}

	svc := services.NewEvaluationService(nil, logger)
	report, err := svc.EvaluateFile(ctx, *file)
	if err != nil {
		return cli.Fail(logger, "Evaluation failed", err)
	}
	printReport(stdout, report)

	if *out != "" {
		exp := exporter.NewEvaluationExporter(exporter.NewCSVWriter("", logger))
		if err := exp.Export(report, *out); err != nil {
			return cli.Fail(logger, "Failed to write report", apierrors.StorageError("export evaluation report", *out, err))
		}
		fmt.Fprintf(stdout, "\nReport written to %s\n", *out)
	}
	return cli.ExitOK
}

// printReport writes each computed section of a file evaluation
func printReport(w io.Writer, r *domain.EvaluationReport) {
	fmt.Fprintln(w, cli.Rule)
	fmt.Fprintln(w, "EVALUATION METRICS")
	fmt.Fprintln(w, cli.Rule)
	fmt.Fprintf(w, "Run ID:  %s\nSamples: %d\n", r.RunID, r.Samples)

	if c := r.Classification; c != nil {
		fmt.Fprintf(w, "\nBinary Classification Metrics\n%s\n", dash)
		fmt.Fprintf(w, "TP: %d  FP: %d  TN: %d  FN: %d\n",
			c.Confusion.TruePositives, c.Confusion.FalsePositives, c.Confusion.TrueNegatives, c.Confusion.FalseNegatives)
		printClassification(w, c.Precision, c.Recall, c.F1Score)
	}
	if r.ROCAUC != nil {
		fmt.Fprintf(w, "\n%s\nProbabilistic Predictions (for ROC AUC)\n%s\n", dash, dash)
		fmt.Fprintf(w, "ROC AUC:   %.4f\n", *r.ROCAUC)
	}
	if r.Delay != nil {
		fmt.Fprintf(w, "\n%s\nDetection Delay Analysis\n%s\n", dash, dash)
		fmt.Fprintf(w, "True Events: %d  Detections: %d\n", r.Delay.Events, r.Delay.Detections)
		printDelay(w, *r.Delay)
	}
}

// demonstrate prints the synthetic walkthrough. The arrays are illustrative.
func demonstrate(w io.Writer) int {
	yTrue := []int{0, 0, 1, 1, 1, 0, 1, 0, 1, 0}
	yPred := []int{0, 1, 1, 0, 1, 0, 1, 1, 1, 0}
	yScores := []float64{0.1, 0.3, 0.9, 0.2, 0.8, 0.15, 0.85, 0.4, 0.95, 0.05}
	trueEvents := []string{"2025-12-20", "2025-12-22", "2025-12-25", "2025-12-28"}
	detected := []string{"2025-12-21", "2025-12-23", "2025-12-26", "2025-12-29"}

	fmt.Fprintln(w, cli.Rule)
	fmt.Fprintln(w, "SYNTHETIC EVALUATION METRICS DEMONSTRATION")
	fmt.Fprintln(w, cli.Rule)

	fmt.Fprintf(w, "\nBinary Classification Metrics\n%s\n", dash)
	fmt.Fprintf(w, "y_true:  %s\n", formatInts(yTrue))
	fmt.Fprintf(w, "y_pred:  %s\n", formatInts(yPred))
	cm, err := evaluation.Classify(yTrue, yPred)
	if err != nil {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return cli.ExitFailure
	}
	printClassification(w, cm.Precision, cm.Recall, cm.F1Score)

	fmt.Fprintf(w, "\n%s\nProbabilistic Predictions (for ROC AUC)\n%s\n", dash, dash)
	fmt.Fprintf(w, "y_true:   %s\n", formatInts(yTrue))
	fmt.Fprintf(w, "y_scores: %s\n", formatFloats(yScores))
	auc, err := evaluation.ROCAUC(yTrue, yScores)
	if err != nil {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return cli.ExitFailure
	}
	fmt.Fprintf(w, "\nROC AUC:   %.4f\n", auc)

	fmt.Fprintf(w, "\n%s\nDetection Delay Analysis\n%s\n", dash, dash)
	fmt.Fprintf(w, "True Event Dates:  %s\n", formatStrings(trueEvents))
	fmt.Fprintf(w, "Detected Dates:    %s\n", formatStrings(detected))
	delay, err := evaluation.DetectionDelayStrings(trueEvents, detected)
	if err != nil {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return cli.ExitFailure
	}
	fmt.Fprintln(w)
	printDelay(w, delay)

	perfect := []int{0, 1, 1, 0}
	fmt.Fprintf(w, "\n%s\nEDGE CASE: Perfect Predictions\n%s\n", cli.Rule, cli.Rule)
	fmt.Fprintf(w, "y_true: %s\n", formatInts(perfect))
	fmt.Fprintf(w, "y_pred: %s\n", formatInts(perfect))
	pm, err := evaluation.Classify(perfect, perfect)
	if err != nil {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return cli.ExitFailure
	}
	printClassification(w, pm.Precision, pm.Recall, pm.F1Score)
	return cli.ExitOK
}

func printClassification(w io.Writer, precision, recall, f1 float64) {
	fmt.Fprintf(w, "\nPrecision: %.4f\n", precision)
	fmt.Fprintf(w, "Recall:    %.4f\n", recall)
	fmt.Fprintf(w, "F1 Score:  %.4f\n", f1)
}

func printDelay(w io.Writer, d domain.DelayStats) {
	fmt.Fprintf(w, "Mean Detection Delay:    %.2f days\n", d.MeanDelayDays)
	fmt.Fprintf(w, "Max Detection Delay:     %d days\n", d.MaxDelayDays)
	fmt.Fprintf(w, "Min Detection Delay:     %d days\n", d.MinDelayDays)
	fmt.Fprintf(w, "Detection Rate:          %.2f%%\n", d.DetectionRate*100)
}

func formatInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatFloats keeps a trailing .0 on whole numbers so lists read like
// literals
func formatFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatStrings(xs []string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = "'" + x + "'"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
