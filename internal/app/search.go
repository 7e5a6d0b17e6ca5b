package app

import (
	"context"
	"fmt"

	"doc_chunker/internal/store"
)

// Search ищет релевантные чанки в векторной базе
func (a *App) Search(ctx context.Context, query string) ([]store.SearchResult, error) {
	if err := a.requireIndex(); err != nil {
		return nil, err
	}

	results, err := a.vectors.Query(ctx, query, a.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	// Фильтруем по similarity
	var filtered []store.SearchResult
	for _, r := range results {
		if r.Similarity < a.cfg.MinSimilarity {
			continue
		}
		filtered = append(filtered, r)
	}

	return filtered, nil
}
