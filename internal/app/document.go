package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"doc_chunker/internal/chunker"
	"doc_chunker/internal/store"

	"golang.org/x/sync/errgroup"
)

// Process превращает один документ в список чанков с эмбеддингами.
// Любая ошибка прерывает обработку, частичный результат не возвращается.
func (a *App) Process(ctx context.Context, source string) ([]store.Record, error) {
	chunks, err := a.chunkDocument(ctx, source)
	if err != nil {
		return nil, err
	}
	return a.embedChunks(ctx, chunks)
}

// ProcessAll обрабатывает несколько документов подряд.
// При нескольких источниках id получают префикс doc<i>_.
// Упавший документ пропускается; ошибка возвращается, только если упали все.
func (a *App) ProcessAll(ctx context.Context, sources []string) ([]store.Record, error) {
	if len(sources) == 1 {
		return a.Process(ctx, sources[0])
	}

	var (
		records []store.Record
		errs    []error
	)
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docRecords, err := a.Process(ctx, source)
		if err != nil {
			log.Printf("❌ Processing failed, skipping %s: %v", displayName(source), err)
			errs = append(errs, err)
			continue
		}

		prefix := fmt.Sprintf("doc%d_", i)
		for _, r := range docRecords {
			r.ID = prefix + r.ID
			records = append(records, r)
		}
	}

	if len(errs) == len(sources) {
		return nil, errors.Join(errs...)
	}

	log.Printf("📊 Processed %d/%d documents, %d chunks", len(sources)-len(errs), len(sources), len(records))
	return records, nil
}

// chunkDocument извлекает текст и разбивает его на чанки
func (a *App) chunkDocument(ctx context.Context, source string) ([]chunker.Chunk, error) {
	content, err := a.extractor.Extract(ctx, source)
	if err != nil {
		return nil, err
	}

	name := displayName(source)
	log.Printf("📄 Document loaded: %s, %d bytes", name, len(content))

	chunkr, err := a.factory.GetChunker(name, a.cfg.ChunkMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunker: %w", err)
	}

	chunks, err := chunkr.Chunk(content, name)
	if errors.Is(err, chunker.ErrNoStructure) {
		// Fallback на text chunker
		log.Printf("⚠️  Chunker failed: %v, falling back to text chunker", err)
		chunks, err = chunker.NewTextChunker(a.factory.Splitter()).Chunk(content, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s chunker failed: %w", chunkr.Name(), err)
	}

	log.Printf("📦 Split into %d chunks", len(chunks))
	return chunks, nil
}

// embedChunks векторизует чанки параллельно, сохраняя их порядок
func (a *App) embedChunks(ctx context.Context, chunks []chunker.Chunk) ([]store.Record, error) {
	records := make([]store.Record, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.cfg.MaxConcurrency, 1))

	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			vec, err := a.embedder.Embed(gctx, ch.Text)
			if err != nil {
				return fmt.Errorf("failed to embed %s: %w", ch.ID, err)
			}
			records[i] = store.Record{ID: ch.ID, Text: ch.Text, Embedding: vec}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("✅ [%s] Embedded %d chunks", a.embedder.Name(), len(records))
	return records, nil
}

// displayName возвращает короткое имя источника: имя файла или последний сегмент URL.
// Расширение сохраняется, по нему выбирается chunker.
func displayName(source string) string {
	switch {
	case strings.HasPrefix(source, "data:"), strings.HasPrefix(source, "base64,"):
		return "inline"
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if u, err := url.Parse(source); err == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
			return path.Base(u.Path)
		}
		return source
	default:
		return filepath.Base(source)
	}
}
