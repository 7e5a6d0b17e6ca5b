package app

import (
	"context"
	"fmt"
	"log"

	"doc_chunker/internal/store"
)

// Run обрабатывает документы и записывает результат в output.
// При ошибке файл не создаётся и не изменяется.
func (a *App) Run(ctx context.Context, sources []string, output string) error {
	if len(sources) == 0 {
		return fmt.Errorf("no input documents")
	}

	records, err := a.ProcessAll(ctx, sources)
	if err != nil {
		return err
	}

	if err := store.WriteJSON(output, records); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("💾 Saved %d chunks to %s", len(records), output)
	return nil
}
