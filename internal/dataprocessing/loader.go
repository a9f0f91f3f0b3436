package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"aimmkit/pkg/contracts/domain"
)

// Format is a supported data file format
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatYAML  Format = "yaml"
)

// ErrUnsupportedFormat is returned for a file extension no loader handles
var ErrUnsupportedFormat = errors.New("unsupported file format")

// RowExtensions lists the extensions sample and record loaders accept
var RowExtensions = []string{".json", ".jsonl", ".ndjson", ".csv", ".xlsx"}

// DetectFormat maps a file extension to its format
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// RowOptions controls how tabular cells are typed
type RowOptions struct {
	// ListFields are split on ';' in CSV and XLSX cells
	ListFields []string
}

// RecordOptions types the list field of output records
var RecordOptions = RowOptions{ListFields: []string{"contributing_signal_types"}}

// LoadRows reads every row of a sample or record file
func LoadRows(path string, opts RowOptions) ([]map[string]any, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return nil, fmt.Errorf("%w for rows: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f, format, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	slog.Debug("Loaded rows",
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// ReadRows decodes rows from r in the given format
func ReadRows(r io.Reader, format Format, opts RowOptions) ([]map[string]any, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatJSONL:
		return readJSONL(r)
	case FormatCSV:
		return readCSV(r, opts)
	case FormatXLSX:
		return readXLSX(r, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// DecodeRows decodes a JSON object or array of objects keeping number literals
func DecodeRows(data []byte) ([]map[string]any, error) {
	return readJSON(bytes.NewReader(data))
}

// LoadSamples reads input samples from a file
func LoadSamples(path string) ([]domain.Sample, error) {
	rows, err := LoadRows(path, RowOptions{})
	if err != nil {
		return nil, err
	}
	samples := make([]domain.Sample, len(rows))
	for i, row := range rows {
		samples[i] = domain.Sample(row)
	}
	return samples, nil
}

// LoadRecords reads output records from a file
func LoadRecords(path string) ([]domain.Record, error) {
	rows, err := LoadRows(path, RecordOptions)
	if err != nil {
		return nil, err
	}
	records := make([]domain.Record, len(rows))
	for i, row := range rows {
		records[i] = domain.Record(row)
	}
	return records, nil
}

func newDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}

func readJSON(r io.Reader) ([]map[string]any, error) {
	var doc any
	if err := newDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	switch v := doc.(type) {
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		rows := make([]map[string]any, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is not an object", i)
			}
			rows[i] = obj
		}
		return rows, nil
	default:
		return nil, errors.New("JSON document must be an object or an array of objects")
	}
}

func readJSONL(r io.Reader) ([]map[string]any, error) {
	var rows []map[string]any
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var obj map[string]any
		if err := newDecoder(strings.NewReader(text)).Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", line, err)
		}
		if obj == nil {
			return nil, fmt.Errorf("line %d: not an object", line)
		}
		rows = append(rows, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
