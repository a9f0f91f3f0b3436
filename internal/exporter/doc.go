// Package exporter writes validation and evaluation reports to disk.
//
// CSVWriter is the shared CSV layer. Relative paths resolve against its base
// directory and files start with a UTF-8 BOM so spreadsheet tools detect the
// encoding.
//
// ValidationExporter writes one row per sample outcome or violation.
// EvaluationExporter writes an evaluation report as JSON, CSV or XLSX, chosen
// by the file extension.
//
//	exp := exporter.NewEvaluationExporter(exporter.NewCSVWriter("", logger))
//	if err := exp.Export(report, "reports/metrics.xlsx"); err != nil {
//	    return err
//	}
package exporter
