package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ListSeparator splits list cells in tabular files
const ListSeparator = ";"

// ParseCell types a tabular cell by its literal: empty is null, true/false
// is a bool, an integer literal is an int, a decimal or exponent literal is
// a float and anything else stays a string.
func ParseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// ParseListCell splits a list cell; an empty cell is an empty list
func ParseListCell(s string) []any {
	out := []any{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, part := range strings.Split(s, ListSeparator) {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// rowsFromTable turns a header row plus data rows into typed maps.
// Fully blank rows are skipped.
func rowsFromTable(table [][]string, opts RowOptions) ([]map[string]any, error) {
	if len(table) == 0 {
		return nil, nil
	}
	header := make([]string, len(table[0]))
	seen := make(map[string]bool, len(header))
	for i, h := range table[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("header column %q is duplicated", h)
		}
		seen[h] = true
		header[i] = h
	}

	lists := make(map[string]bool, len(opts.ListFields))
	for _, f := range opts.ListFields {
		lists[f] = true
	}

	var rows []map[string]any
	for n, cells := range table[1:] {
		if isBlank(cells) {
			continue
		}
		if len(cells) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells but header has %d", n+2, len(cells), len(header))
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if lists[name] {
				row[name] = ParseListCell(cell)
			} else {
				row[name] = ParseCell(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader, opts RowOptions) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	return rowsFromTable(table, opts)
}

// readXLSX reads the first sheet of a workbook
func readXLSX(r io.Reader, opts RowOptions) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	// Raw values bypass number formats such as #,##0 so cells type by their
	// stored literal.
	table, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if err := restoreBoolCells(f, sheets[0], table); err != nil {
		return nil, err
	}
	return rowsFromTable(table, opts)
}

// restoreBoolCells rewrites boolean cells, stored raw as 0 or 1, to their
// true/false literals
func restoreBoolCells(f *excelize.File, sheet string, table [][]string) error {
	for r, cells := range table {
		for c, v := range cells {
			if v != "0" && v != "1" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			typ, err := f.GetCellType(sheet, name)
			if err != nil {
				return fmt.Errorf("failed to read cell %s: %w", name, err)
			}
			if typ == excelize.CellTypeBool {
				table[r][c] = strconv.FormatBool(v == "1")
			}
		}
	}
	return nil
}
