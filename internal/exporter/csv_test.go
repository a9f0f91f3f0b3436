package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readCSV reads a report back, checking and stripping the BOM
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "report must start with a UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	err := w.WriteSimpleCSV("reports/out.csv", []string{"a", "b"}, [][]string{{"1", "x,y"}, {"2", "z"}})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "reports", "out.csv"))
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "x,y"}, {"2", "z"}}, rows)
}

func TestCSVWriter_Append(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"a"}, [][]string{{"1"}}))
	require.NoError(t, w.WriteCSV("out.csv", WriteOptions{Headers: []string{"ignored"}, Records: [][]string{{"2"}}, Append: true, BOMPrefix: true}))

	rows := readCSV(t, filepath.Join(dir, "out.csv"))
	assert.Equal(t, [][]string{{"a"}, {"1"}, {"2"}}, rows)
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter("", nil)
	path := filepath.Join(dir, "nested", "stream.csv")

	stream, err := w.CreateStreamWriter(path, []string{"n"})
	require.NoError(t, err)
	for _, v := range []string{"1", "2", "3"} {
		require.NoError(t, stream.WriteRecord([]string{v}))
	}
	assert.Equal(t, 3, stream.Rows())
	require.NoError(t, stream.Close())

	assert.Equal(t, [][]string{{"n"}, {"1"}, {"2"}, {"3"}}, readCSV(t, path))
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.csv")

	tests := []struct {
		name    string
		baseDir string
		path    string
		want    string
	}{
		{name: "absolute path", baseDir: "base", path: abs, want: abs},
		{name: "relative path", baseDir: "base", path: "x.csv", want: filepath.Join("base", "x.csv")},
		{name: "no base dir", path: "x.csv", want: "x.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewCSVWriter(tt.baseDir, nil).ResolvePath(tt.path))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "2500000.5", formatValue(2500000.5))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "7", formatValue(7))
	assert.Equal(t, "[a b]", formatValue([]any{"a", "b"}))
	assert.Equal(t, "0.6667", formatFloat(2.0/3.0))
}
