package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"aimmkit/internal/cli"
	"aimmkit/internal/shared/testutil"
)

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, cli.ExitOK, run(context.Background(), []string{"-h"}, &stderr))
	assert.Contains(t, stderr.String(), "-config")

	assert.Equal(t, cli.ExitUsage, run(context.Background(), []string{"-port", "1"}, &stderr))
	assert.Equal(t, cli.ExitUsage, run(context.Background(), []string{"serve"}, &stderr))
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	badLevel := testutil.WriteFile(t, dir, "config.yaml", "logging:\n  level: loud\n")
	unknownKey := testutil.WriteFile(t, dir, "unknown.yaml", "server:\n  listen: 1\n")

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.yaml")},
		{name: "invalid level", path: badLevel},
		{name: "unknown key", path: unknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := run(context.Background(), []string{"-config", tt.path}, &stderr)
			assert.Equal(t, cli.ExitFailure, code)
			assert.Contains(t, stderr.String(), "configuration error")
		})
	}
}
