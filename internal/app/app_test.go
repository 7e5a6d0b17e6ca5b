package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"doc_chunker/internal/config"
	"doc_chunker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		DataDir:         filepath.Join(t.TempDir(), "data"),
		ChunkSize:       7,
		ChunkOverlap:    2,
		ChunkSeparators: []string{"\n\n", ""},
		ChunkLengthUnit: "chars",
		CleanText:       true,
		FetchTimeout:    5 * time.Second,
		EmbedProvider:   "stub",
		EmbedDimension:  4,
		MaxConcurrency:  2,
		Collection:      "docs",
		TopK:            5,
		MinSimilarity:   0.3,
	}
	cfg.Derive()
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ChunkOverlap = cfg.ChunkSize
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.ChunkLengthUnit = "tokens"
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.EmbedProvider = "openai"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestRun_TextFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "doc.txt", "AAAAA\n\nBBBBB\n\nCCCCC")
	output := filepath.Join(dir, "out", "chunks.json")

	a := newApp(t, testConfig(t))
	require.NoError(t, a.Run(context.Background(), []string{input}, output))

	records, err := store.ReadJSON(output)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, want := range []string{"AAAAA", "BBBBB", "CCCCC"} {
		assert.Equal(t, "chunk_"+string(rune('0'+i)), records[i].ID)
		assert.Equal(t, want, records[i].Text)
		require.Len(t, records[i].Embedding, 4)
		assert.InDelta(t, 0.1, records[i].Embedding[0], 1e-7)
	}
}

func TestRun_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "chunks.json")

	a := newApp(t, testConfig(t))
	err := a.Run(context.Background(), []string{filepath.Join(dir, "missing.txt")}, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))

	err = a.Run(context.Background(), nil, output)
	assert.Error(t, err)
}

func TestProcessAll_PrefixesAndSkips(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.txt", "AAAAA\n\nBBBBB")
	second := writeFile(t, dir, "b.txt", "CCCCC")

	a := newApp(t, testConfig(t))
	records, err := a.ProcessAll(context.Background(), []string{first, filepath.Join(dir, "missing.txt"), second})
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"doc0_chunk_0", "doc0_chunk_1", "doc2_chunk_0"}, ids)
	assert.Equal(t, "CCCCC", records[2].Text)
}

func TestProcessAll_AllFail(t *testing.T) {
	dir := t.TempDir()
	a := newApp(t, testConfig(t))

	_, err := a.ProcessAll(context.Background(), []string{
		filepath.Join(dir, "one.txt"),
		filepath.Join(dir, "two.txt"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestProcess_MarkdownFallback(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md", "plain text without any headings")

	cfg := testConfig(t)
	cfg.ChunkSize = 100
	cfg.ChunkOverlap = 10
	a := newApp(t, cfg)

	records, err := a.Process(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "plain text without any headings", records[0].Text)
}

func TestProcess_Markdown(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "guide.md", "# One\n\nfirst body\n\n# Two\n\nsecond body\n")

	cfg := testConfig(t)
	cfg.ChunkSize = 100
	cfg.ChunkOverlap = 10
	a := newApp(t, cfg)

	records, err := a.Process(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "# One\n\nfirst body", records[0].Text)
	assert.Equal(t, "# Two\n\nsecond body", records[1].Text)
}

func TestProcess_Canceled(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "doc.txt", "AAAAA\n\nBBBBB\n\nCCCCC")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newApp(t, testConfig(t))
	_, err := a.Process(ctx, input)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexAndSearch(t *testing.T) {
	docs := t.TempDir()
	writeFile(t, docs, "a.txt", "alpha")
	writeFile(t, docs, "b.md", "beta")
	writeFile(t, docs, "image.png", "not a document")

	cfg := testConfig(t)
	ctx := context.Background()

	a := newApp(t, cfg)
	_, err := a.Search(ctx, "alpha")
	assert.Error(t, err, "search before Init")

	require.NoError(t, a.Init())

	stats, err := a.Index(ctx, []string{docs})
	require.NoError(t, err)
	assert.Equal(t, IndexStats{Indexed: 2, Chunks: 2}, stats)

	stats, err = a.Index(ctx, []string{docs})
	require.NoError(t, err)
	assert.Equal(t, IndexStats{Skipped: 2}, stats)

	// Состояние переживает перезапуск
	b := newApp(t, cfg)
	require.NoError(t, b.Init())
	assert.Equal(t, 2, b.vectors.Count())
	assert.Len(t, b.manifest.Files, 2)

	results, err := b.Search(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, cfg.MinSimilarity)
		assert.Equal(t, "chunk_0", r.ChunkID)
	}
}

func TestIndex_ChangedFileReplaced(t *testing.T) {
	docs := t.TempDir()
	path := writeFile(t, docs, "a.txt", "alpha")

	cfg := testConfig(t)
	ctx := context.Background()
	a := newApp(t, cfg)
	require.NoError(t, a.Init())

	_, err := a.Index(ctx, []string{path})
	require.NoError(t, err)

	writeFile(t, docs, "a.txt", "AAAAA\n\nBBBBB")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	stats, err := a.Index(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 2, a.vectors.Count())
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"/tmp/docs/report.pdf", "report.pdf"},
		{"https://example.com/files/guide.md?x=1", "guide.md"},
		{"https://example.com/", "https://example.com/"},
		{"data:application/pdf;base64,JVBERi0=", "inline"},
		{"base64,aGVsbG8=", "inline"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, displayName(tt.source))
		})
	}
}
