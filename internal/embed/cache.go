package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps an Embedder with an in-memory LRU keyed by content hash.
// Overlapping or repeated chunks are embedded once.
type Cached struct {
	next  Embedder
	cache *lru.Cache[string, []float32]
}

// NewCached creates a cache of at most size vectors in front of next
func NewCached(next Embedder, size int) *Cached {
	if size <= 0 {
		size = 10000
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		// only fails for non-positive size
		cache, _ = lru.New[string, []float32](10000)
	}
	return &Cached{next: next, cache: cache}
}

// Embed returns a copy of the cached vector, calling the wrapped embedder on a miss
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := ComputeHash(text)
	if vector, ok := c.cache.Get(key); ok {
		return copyVector(vector), nil
	}

	vector, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, copyVector(vector))
	return vector, nil
}

func (c *Cached) Dimension() int { return c.next.Dimension() }

func (c *Cached) Name() string { return c.next.Name() }

// Len returns the number of cached vectors
func (c *Cached) Len() int { return c.cache.Len() }

// ComputeHash computes SHA-256 hash of text for caching
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func copyVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
