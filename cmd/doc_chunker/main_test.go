package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{
			name: "flags",
			args: []string{"-output", "out.json", "-method", "markdown", "a.md", "b.pdf"},
			want: options{output: "out.json", method: "markdown", sources: []string{"a.md", "b.pdf"}},
		},
		{
			name: "legacy form",
			args: []string{"doc.pdf", "chunks.json"},
			want: options{output: "chunks.json", sources: []string{"doc.pdf"}},
		},
		{
			name: "two sources are not the legacy form",
			args: []string{"a.txt", "b.txt"},
			want: options{sources: []string{"a.txt", "b.txt"}},
		},
		{
			name: "index",
			args: []string{"-index", "-data", "/tmp/db", "docs"},
			want: options{index: true, dataDir: "/tmp/db", sources: []string{"docs"}},
		},
		{
			name: "query only",
			args: []string{"-query", "what is it"},
			want: options{query: "what is it"},
		},
		{name: "no sources", args: nil, wantErr: true},
		{name: "query with sources", args: []string{"-query", "q", "a.txt"}, wantErr: true},
		{name: "unknown flag", args: []string{"-bogus", "a.txt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_ExitCodes(t *testing.T) {
	t.Setenv("EMBED_DIMENSION", "3")
	t.Setenv("OUTPUT_FILE", "")
	dir := t.TempDir()

	var stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(nil, &stderr))
	assert.Contains(t, stderr.String(), "Usage:")

	input := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello world"), 0644))

	stderr.Reset()
	assert.Equal(t, exitUsage, run([]string{input}, &stderr), "output is required")

	output := filepath.Join(dir, "chunks.json")
	assert.Equal(t, exitOK, run([]string{input, output}, &stderr))
	assert.FileExists(t, output)

	missingOut := filepath.Join(dir, "missing.json")
	assert.Equal(t, exitError, run([]string{filepath.Join(dir, "nope.txt"), missingOut}, &stderr))
	assert.NoFileExists(t, missingOut)
}
