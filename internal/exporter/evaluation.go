package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"aimmkit/pkg/contracts/domain"
)

// ErrUnsupportedFormat is returned for a report path with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported report format")

// MetricHeaders are the columns of the metrics table
var MetricHeaders = []string{"metric", "value"}

// EvaluationExporter writes evaluation reports
type EvaluationExporter struct {
	csv *CSVWriter
}

// NewEvaluationExporter creates an evaluation report exporter
func NewEvaluationExporter(csv *CSVWriter) *EvaluationExporter {
	return &EvaluationExporter{csv: csv}
}

// Export writes the report in the format named by the extension of
// outputPath: .json, .csv or .xlsx
func (e *EvaluationExporter) Export(report *domain.EvaluationReport, outputPath string) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(outputPath)); ext {
	case ".json":
		err = e.exportJSON(report, outputPath)
	case ".csv":
		err = e.csv.WriteSimpleCSV(outputPath, MetricHeaders, metricRows(report))
	case ".xlsx":
		err = e.exportXLSX(report, outputPath)
	default:
		return fmt.Errorf("%w %q (want .json, .csv or .xlsx)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}

	e.csv.logger.Info("Evaluation report exported",
		slog.String("path", e.csv.ResolvePath(outputPath)),
		slog.String("run_id", report.RunID))
	return nil
}

func (e *EvaluationExporter) exportJSON(report *domain.EvaluationReport, outputPath string) error {
	fullPath := e.csv.ResolvePath(outputPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(fullPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// exportXLSX writes a Metrics sheet and, when classification ran, a
// Confusion sheet
func (e *EvaluationExporter) exportXLSX(report *domain.EvaluationReport, outputPath string) error {
	fullPath := e.csv.ResolvePath(outputPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	const metricsSheet = "Metrics"
	if err := f.SetSheetName("Sheet1", metricsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]any{{"metric", "value"}}
	for _, m := range metricValues(report) {
		rows = append(rows, []any{m.name, m.value})
	}
	rows = append(rows, []any{"run_id", report.RunID}, []any{"generated_at", report.GeneratedAt.Format(time.RFC3339)})
	if err := writeSheet(f, metricsSheet, rows, bold); err != nil {
		return err
	}

	if c := report.Classification; c != nil {
		const confusionSheet = "Confusion"
		if _, err := f.NewSheet(confusionSheet); err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
		cm := c.Confusion
		confusion := [][]any{
			{"", "predicted_1", "predicted_0"},
			{"actual_1", cm.TruePositives, cm.FalseNegatives},
			{"actual_0", cm.FalsePositives, cm.TrueNegatives},
		}
		if err := writeSheet(f, confusionSheet, confusion, bold); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, r+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", "A", 20)
}

type namedValue struct {
	name  string
	value any
}

// metricValues lists the report metrics in a fixed order
func metricValues(report *domain.EvaluationReport) []namedValue {
	var out []namedValue
	out = append(out, namedValue{"samples", report.Samples})
	if c := report.Classification; c != nil {
		out = append(out,
			namedValue{"precision", c.Precision},
			namedValue{"recall", c.Recall},
			namedValue{"f1_score", c.F1Score},
			namedValue{"true_positives", c.Confusion.TruePositives},
			namedValue{"false_positives", c.Confusion.FalsePositives},
			namedValue{"true_negatives", c.Confusion.TrueNegatives},
			namedValue{"false_negatives", c.Confusion.FalseNegatives},
		)
	}
	if report.ROCAUC != nil {
		out = append(out, namedValue{"roc_auc", *report.ROCAUC})
	}
	if d := report.Delay; d != nil {
		out = append(out,
			namedValue{"mean_delay_days", d.MeanDelayDays},
			namedValue{"max_delay_days", d.MaxDelayDays},
			namedValue{"min_delay_days", d.MinDelayDays},
			namedValue{"detection_rate", d.DetectionRate},
		)
	}
	return out
}

func metricRows(report *domain.EvaluationReport) [][]string {
	values := metricValues(report)
	rows := make([][]string, 0, len(values))
	for _, m := range values {
		var cell string
		switch v := m.value.(type) {
		case float64:
			cell = formatFloat(v)
		case int:
			cell = formatInt(v)
		}
		rows = append(rows, []string{m.name, cell})
	}
	return rows
}
