package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"aimmkit/internal/dataprocessing"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/exporter"
	"aimmkit/internal/files"
	"aimmkit/internal/services"
	"aimmkit/internal/validation"
)

// BatchOptions selects the files a validation command checks
type BatchOptions struct {
	Kind services.Kind
	// Files is a comma separated list of paths
	Files string
	Dir   string
	// Report is an optional CSV report path
	Report string
}

// HasInput reports whether any files were requested
func (o BatchOptions) HasInput() bool {
	return o.Files != "" || o.Dir != ""
}

// RunBatch validates the requested files, prints a summary to stdout and
// optionally writes a CSV report. It returns ExitFailure when any item is
// invalid or a file cannot be read.
func RunBatch(ctx context.Context, svc *services.ValidationService, opts BatchOptions, stdout io.Writer, logger *slog.Logger) int {
	paths, err := collectPaths(opts, logger)
	if err != nil {
		return Fail(logger, "Failed to collect input files", err)
	}

	fv := validation.NewFileValidator(logger)
	for _, p := range paths {
		if err := fv.ValidateDataFile(p, dataprocessing.RowExtensions...); err != nil {
			return Fail(logger, "Input file rejected", err)
		}
	}
	if opts.Report != "" {
		if err := fv.ValidateOutputFile(opts.Report); err != nil {
			return Fail(logger, "Report path rejected", err)
		}
	}

	batch, err := svc.ValidateFiles(ctx, opts.Kind, paths)
	if err != nil {
		return Fail(logger, "Validation failed", err)
	}

	PrintBatch(stdout, batch)

	if opts.Report != "" {
		exp := exporter.NewValidationExporter(exporter.NewCSVWriter("", logger))
		if err := exp.Export(batch, opts.Report); err != nil {
			return Fail(logger, "Failed to write report", apierrors.StorageError("export validation report", opts.Report, err))
		}
		fmt.Fprintf(stdout, "Report written to %s\n", opts.Report)
	}

	if !batch.OK() {
		return ExitFailure
	}
	return ExitOK
}

func collectPaths(opts BatchOptions, logger *slog.Logger) ([]string, error) {
	paths := files.SplitList(opts.Files)
	if opts.Dir != "" {
		if err := validation.NewFileValidator(logger).ValidateInputDirectory(opts.Dir, dataprocessing.RowExtensions...); err != nil {
			return nil, err
		}
		found, err := files.NewDiscovery("").FindByExtensions(opts.Dir, dataprocessing.RowExtensions...)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files.Paths(found)...)
	}
	return paths, nil
}

// PrintBatch writes a per-file, per-item summary of a batch
func PrintBatch(w io.Writer, batch *services.BatchReport) {
	for _, report := range batch.Files {
		fmt.Fprintf(w, "%s (%s): %d items, %d valid, %d invalid\n",
			report.Source, report.Schema, report.Total, report.Valid, report.Invalid)
		for _, item := range report.Results {
			if item.Valid {
				fmt.Fprintf(w, "  [%d] %s\n", item.Index, item.Message)
			} else {
				fmt.Fprintf(w, "  [%d] ✗ %s\n", item.Index, item.Message)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, Rule)
	fmt.Fprintf(w, "Files: %d  Items: %d  Valid: %d  Invalid: %d\n",
		len(batch.Files), batch.Total, batch.Valid, batch.Invalid)
	if batch.OK() {
		fmt.Fprintln(w, "All items passed schema validation.")
	} else {
		fmt.Fprintln(w, "Some items failed schema validation.")
	}
}
