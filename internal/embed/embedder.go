// Package embed maps chunk text to fixed-length vectors.
package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
)

// Common errors
var (
	ErrEmptyText           = errors.New("text cannot be empty")
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
	ErrDimensionMismatch   = errors.New("embedding dimension mismatch")
)

// Provider names
const (
	ProviderStub   = "stub"
	ProviderOllama = "ollama"
)

// DefaultDimension is the vector size of nomic-embed-text.
const DefaultDimension = 768

// Embedder generates a vector for a piece of text.
type Embedder interface {
	// Embed returns the embedding of text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the vector length, or 0 if it is only known after the first call
	Dimension() int

	// Name returns the provider name for logging
	Name() string
}

// Config holds embedder configuration
type Config struct {
	Provider  string
	Dimension int
	CacheSize int

	OllamaURL   string
	OllamaModel string
	Retry       RetryConfig
}

// New creates an embedder with explicit configuration.
// A positive CacheSize wraps the provider in an LRU cache.
func New(cfg Config) (Embedder, error) {
	var e Embedder
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderStub:
		e = NewStub(cfg.Dimension)
	case ProviderOllama:
		retry := cfg.Retry
		if retry.MaxRetries == 0 {
			retry = DefaultRetryConfig()
		}
		ollama, err := NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.Dimension, retry)
		if err != nil {
			return nil, err
		}
		e = ollama
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}

	if cfg.CacheSize > 0 {
		e = NewCached(e, cfg.CacheSize)
	}
	return e, nil
}

// ChromemFunc adapts an Embedder to chromem-go, so a collection can embed queries
// and documents with the same provider that produced the stored vectors.
func ChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.Embed(ctx, text)
	}
}
