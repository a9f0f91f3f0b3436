package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindByExtensions(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		exts     []string
		expected []string
	}{
		{
			name:     "sample formats",
			files:    []string{"b.json", "a.csv", "c.xlsx", "d.jsonl", "e.ndjson", "notes.txt"},
			exts:     []string{".json", ".jsonl", ".ndjson", ".csv", ".xlsx"},
			expected: []string{"a.csv", "b.json", "c.xlsx", "d.jsonl", "e.ndjson"},
		},
		{
			name:     "extension case ignored",
			files:    []string{"UPPER.CSV", "lower.csv"},
			exts:     []string{".csv"},
			expected: []string{"UPPER.CSV", "lower.csv"},
		},
		{
			name:     "hidden and lock files skipped",
			files:    []string{".hidden.json", "~$open.xlsx", "real.xlsx"},
			exts:     []string{".json", ".xlsx"},
			expected: []string{"real.xlsx"},
		},
		{
			name:     "empty directory",
			files:    []string{},
			exts:     []string{".json"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("{}"), 0o644))
			}
			require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

			found, err := NewDiscovery("").FindByExtensions(dir, tt.exts...)
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
				assert.False(t, f.IsDir)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestFindByExtensionsRelative(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "data", "s.json"), []byte("{}"), 0o644))

	found, err := NewDiscovery(base).FindByExtensions("data", ".json")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(base, "data", "s.json"), found[0].Path)
}

func TestFindByExtensionsMissingDir(t *testing.T) {
	_, err := NewDiscovery("").FindByExtensions(filepath.Join(t.TempDir(), "missing"), ".json")
	assert.ErrorContains(t, err, "failed to read directory")
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"outputs_2.json", "outputs_1.json", "inputs.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("{}"), 0o644))
	}

	found, err := NewDiscovery(dir).FindFilesByPattern(".", "outputs_*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "outputs_1.json"), filepath.Join(dir, "outputs_2.json")}, Paths(found))

	_, err = NewDiscovery(dir).FindFilesByPattern(".", "[")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.json", "b.csv"}, SplitList(" a.json, ,b.csv,"))
	assert.Nil(t, SplitList(""))
}
