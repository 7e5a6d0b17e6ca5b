package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// IndexStats итоги одного прохода индексации
type IndexStats struct {
	Indexed int
	Skipped int
	Failed  int
	Chunks  int
}

// Index добавляет локальные документы в векторную базу.
// Каталоги обходятся рекурсивно; неизменённые файлы пропускаются.
func (a *App) Index(ctx context.Context, paths []string) (IndexStats, error) {
	var stats IndexStats
	if err := a.requireIndex(); err != nil {
		return stats, err
	}

	files, err := collectFiles(paths)
	if err != nil {
		return stats, err
	}

	log.Printf("Current metadata contains %d files", len(a.manifest.Files))

	var errs []error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		info, err := os.Stat(path)
		if err != nil {
			stats.Failed++
			errs = append(errs, err)
			continue
		}

		key, err := filepath.Abs(path)
		if err != nil {
			key = path
		}

		if a.manifest.Unchanged(key, info) {
			log.Printf("Skipping unchanged file: %s", path)
			stats.Skipped++
			continue
		}
		log.Printf("Indexing file: %s", path)

		records, err := a.Process(ctx, path)
		if err != nil {
			log.Printf("❌ Indexing failed, skipping %s: %v", path, err)
			stats.Failed++
			errs = append(errs, err)
			continue
		}

		if err := a.vectors.Replace(ctx, key, records); err != nil {
			return stats, err
		}
		a.manifest.Record(key, info, len(records))

		stats.Indexed++
		stats.Chunks += len(records)
		log.Printf("Indexed file: %s (%d chunks)", path, len(records))
	}

	if stats.Indexed > 0 {
		if err := a.vectors.Save(); err != nil {
			return stats, fmt.Errorf("failed to save vector database: %w", err)
		}
		if err := a.manifest.Save(a.cfg.MetadataFile); err != nil {
			return stats, fmt.Errorf("failed to save metadata: %w", err)
		}
	}

	log.Printf("📊 Index: %d indexed, %d skipped, %d failed, %d chunks in collection",
		stats.Indexed, stats.Skipped, stats.Failed, a.vectors.Count())

	if stats.Failed > 0 && stats.Indexed == 0 && stats.Skipped == 0 {
		return stats, errors.Join(errs...)
	}
	return stats, nil
}

// collectFiles раскрывает каталоги в список поддерживаемых файлов
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !fileCanProcess(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	return files, nil
}

// fileCanProcess проверяет, что файл это .md, .txt или .pdf
func fileCanProcess(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt", ".pdf":
		return true
	}
	return false
}
