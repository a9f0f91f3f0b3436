package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"aimmkit/pkg/contracts/domain"
)

// Evaluation set CSV columns. A row that carries any label column must carry
// every label column in the header, so y_true, y_pred and y_score stay paired.
// Date columns may be shorter than label columns; blank date cells are skipped.
const (
	ColumnYTrue     = "y_true"
	ColumnYPred     = "y_pred"
	ColumnYScore    = "y_score"
	ColumnEventDate = "true_event_date"
	ColumnDetected  = "detected_date"
)

// LoadEvaluationSet reads an evaluation set from JSON, YAML or CSV
func LoadEvaluationSet(path string) (domain.EvaluationSet, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return domain.EvaluationSet{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.EvaluationSet{}, fmt.Errorf("failed to read evaluation set: %w", err)
	}
	set, err := ParseEvaluationSet(data, format)
	if err != nil {
		return domain.EvaluationSet{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return set, nil
}

// ParseEvaluationSet decodes an evaluation set document
func ParseEvaluationSet(data []byte, format Format) (domain.EvaluationSet, error) {
	var set domain.EvaluationSet
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&set); err != nil {
			return set, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &set); err != nil {
			return set, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatCSV:
		return parseEvaluationCSV(data)
	default:
		return set, fmt.Errorf("%w for evaluation sets: %s", ErrUnsupportedFormat, format)
	}
	return set, nil
}

func parseEvaluationCSV(data []byte) (domain.EvaluationSet, error) {
	var set domain.EvaluationSet
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	table, err := reader.ReadAll()
	if err != nil {
		return set, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(table) == 0 {
		return set, nil
	}

	cols := make(map[string]int)
	for i, h := range table[0] {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if name == "y_scores" {
			name = ColumnYScore
		}
		switch name {
		case ColumnYTrue, ColumnYPred, ColumnYScore, ColumnEventDate, ColumnDetected:
			cols[name] = i
		default:
			return set, fmt.Errorf("unknown column %q", h)
		}
	}

	var labels []string
	for _, col := range []string{ColumnYTrue, ColumnYPred, ColumnYScore} {
		if _, ok := cols[col]; ok {
			labels = append(labels, col)
		}
	}

	cell := func(row []string, col string) (string, bool) {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	for n, row := range table[1:] {
		line := n + 2
		if isBlank(row) {
			continue
		}
		if err := checkLabelCells(row, line, labels, cell); err != nil {
			return set, err
		}
		if v, ok := cell(row, ColumnYTrue); ok {
			label, err := strconv.Atoi(v)
			if err != nil {
				return set, fmt.Errorf("row %d: y_true %q is not an integer", line, v)
			}
			set.YTrue = append(set.YTrue, label)
		}
		if v, ok := cell(row, ColumnYPred); ok {
			label, err := strconv.Atoi(v)
			if err != nil {
				return set, fmt.Errorf("row %d: y_pred %q is not an integer", line, v)
			}
			set.YPred = append(set.YPred, label)
		}
		if v, ok := cell(row, ColumnYScore); ok {
			score, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return set, fmt.Errorf("row %d: y_score %q is not a number", line, v)
			}
			set.YScores = append(set.YScores, score)
		}
		if v, ok := cell(row, ColumnEventDate); ok {
			set.TrueEventDates = append(set.TrueEventDates, v)
		}
		if v, ok := cell(row, ColumnDetected); ok {
			set.DetectedDates = append(set.DetectedDates, v)
		}
	}
	return set, nil
}

// checkLabelCells rejects a row that fills some label columns but not others
func checkLabelCells(row []string, line int, labels []string, cell func([]string, string) (string, bool)) error {
	var filled, blank []string
	for _, col := range labels {
		if _, ok := cell(row, col); ok {
			filled = append(filled, col)
		} else {
			blank = append(blank, col)
		}
	}
	if len(filled) > 0 && len(blank) > 0 {
		return fmt.Errorf("row %d: %s is blank", line, blank[0])
	}
	return nil
}
