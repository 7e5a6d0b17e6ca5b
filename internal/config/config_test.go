package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	cfg := Config{}
	require.NoError(t, Init(&cfg))

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, []string{"\n\n", "\n", " ", ""}, cfg.ChunkSeparators)
	assert.Equal(t, "chars", cfg.ChunkLengthUnit)
	assert.True(t, cfg.CleanText)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "stub", cfg.EmbedProvider)
	assert.Equal(t, 768, cfg.EmbedDimension)
	assert.Equal(t, "docs", cfg.Collection)
	assert.Equal(t, filepath.Join("data", "metadata.json"), cfg.MetadataFile)
	assert.Equal(t, filepath.Join("data", "vectors.gob.gz"), cfg.DBFile)
}

func TestInit_FromEnv(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "300")
	t.Setenv("CHUNK_OVERLAP", "30")
	t.Setenv("CHUNK_SEPARATORS", `\n\n|\t|`)
	t.Setenv("CHUNK_LENGTH_UNIT", "bytes")
	t.Setenv("DATA_DIR", "/tmp/chunks")
	t.Setenv("MIN_SIMILARITY", "0.5")

	cfg := Config{}
	require.NoError(t, Init(&cfg))

	assert.Equal(t, 300, cfg.ChunkSize)
	assert.Equal(t, 30, cfg.ChunkOverlap)
	assert.Equal(t, []string{"\n\n", "\t", ""}, cfg.ChunkSeparators)
	assert.Equal(t, "bytes", cfg.ChunkLengthUnit)
	assert.InDelta(t, 0.5, cfg.MinSimilarity, 1e-6)
	assert.Equal(t, filepath.Join("/tmp/chunks", "vectors.gob.gz"), cfg.DBFile)
}

func TestInit_InvalidValue(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "big")

	cfg := Config{}
	assert.Error(t, Init(&cfg))
}
