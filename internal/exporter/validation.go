package exporter

import (
	"fmt"
	"log/slog"

	"aimmkit/internal/services"
)

// ValidationHeaders are the columns of a validation report
var ValidationHeaders = []string{"source", "kind", "index", "valid", "field", "message", "value"}

// ValidationExporter writes validation outcomes as CSV
type ValidationExporter struct {
	csv *CSVWriter
}

// NewValidationExporter creates a validation report exporter
func NewValidationExporter(csv *CSVWriter) *ValidationExporter {
	return &ValidationExporter{csv: csv}
}

// Export writes one row per valid item and one row per violation of an
// invalid item, in file then item order
func (e *ValidationExporter) Export(batch *services.BatchReport, outputPath string) error {
	stream, err := e.csv.CreateStreamWriter(outputPath, ValidationHeaders)
	if err != nil {
		return fmt.Errorf("failed to create validation report: %w", err)
	}

	for _, report := range batch.Files {
		for _, row := range reportRows(report) {
			if err := stream.WriteRecord(row); err != nil {
				stream.Close()
				return fmt.Errorf("failed to write validation row: %w", err)
			}
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close validation report: %w", err)
	}

	e.csv.logger.Info("Validation report exported",
		slog.String("path", e.csv.ResolvePath(outputPath)),
		slog.Int("files", len(batch.Files)),
		slog.Int("rows", stream.Rows()))
	return nil
}

func reportRows(report *services.Report) [][]string {
	var rows [][]string
	for _, item := range report.Results {
		base := []string{report.Source, string(report.Kind), formatInt(item.Index), formatBool(item.Valid)}
		if item.Valid || len(item.Violations) == 0 {
			rows = append(rows, append(base, "", item.Message, ""))
			continue
		}
		for _, v := range item.Violations {
			row := append([]string(nil), base...)
			rows = append(rows, append(row, v.Field, v.Message, formatValue(v.Value)))
		}
	}
	return rows
}
