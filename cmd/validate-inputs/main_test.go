package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimmkit/internal/cli"
	"aimmkit/internal/shared/testutil"
	"aimmkit/pkg/contracts/domain"
)

func runCommand(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("AIMM_CONFIG", "")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Demonstration(t *testing.T) {
	code, out, _ := runCommand(t)
	require.Equal(t, cli.ExitOK, code)

	assert.True(t, strings.HasPrefix(out, "Validating minimal synthetic sample against AIMM input schema...\n\n"))
	assert.Contains(t, out, "✓ Schema validation passed for sample with 17 features\n\nSample validation successful.\n")
	assert.Contains(t, out, "\n"+cli.Rule+"\nDemonstrating validation failure (missing feature)...\n\n")
	assert.Contains(t, out, "Expected validation error: Missing required features: [close_price]\n")
	assert.Contains(t, out, "Demonstrating validation failure (wrong type)...\n\n")
	assert.Contains(t, out, "Expected validation error: Feature 'volume' expected type int, got float")
	assert.Equal(t, 2, strings.Count(out, cli.Rule))
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteJSON(t, dir, "good.json", testutil.MinimalSample())

	bad := testutil.MinimalSample()
	bad["extra_feature"] = 1.0
	strictBad := testutil.WriteJSON(t, dir, "extra.json", []domain.Sample{bad})

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{name: "single valid file", args: []string{"-file", good}, wantCode: cli.ExitOK, wantOut: "Valid: 1  Invalid: 0"},
		{name: "extra feature lenient", args: []string{"-file", strictBad}, wantCode: cli.ExitOK, wantOut: "Valid: 1  Invalid: 0"},
		{name: "extra feature strict", args: []string{"-strict", "-file", strictBad}, wantCode: cli.ExitFailure, wantOut: "not declared in schema"},
		{name: "directory", args: []string{"-dir", dir, "-workers", "1"}, wantCode: cli.ExitOK, wantOut: "Files: 2  Items: 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runCommand(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestRun_SchemaFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := testutil.WriteFile(t, dir, "schema.yaml", `name: tiny
features:
  - name: score
    type: float
    group: social
`)
	samples := testutil.WriteFile(t, dir, "samples.jsonl", "{\"score\": 0.5}\n{\"score\": \"high\"}\n")

	code, out, _ := runCommand(t, "-schema", schemaPath, "-file", samples)
	assert.Equal(t, cli.ExitFailure, code)
	assert.Contains(t, out, "(tiny): 2 items, 1 valid, 1 invalid")

	code, _, stderr := runCommand(t, "-schema", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, cli.ExitFailure, code)
	assert.Contains(t, stderr, "Failed to load input schema")
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "help", args: []string{"-h"}, wantCode: cli.ExitOK},
		{name: "unknown flag", args: []string{"-bogus"}, wantCode: cli.ExitUsage},
		{name: "positional argument", args: []string{"samples.json"}, wantCode: cli.ExitUsage},
		{name: "report without input", args: []string{"-report", "out.csv"}, wantCode: cli.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCommand(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
