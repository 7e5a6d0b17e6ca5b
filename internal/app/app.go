package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"doc_chunker/internal/chunker"
	"doc_chunker/internal/config"
	"doc_chunker/internal/embed"
	"doc_chunker/internal/extract"
	"doc_chunker/internal/store"
)

type App struct {
	cfg       *config.Config
	factory   *chunker.Factory
	extractor *extract.Extractor
	embedder  embed.Embedder

	// Заполняются в Init, нужны только для индекса
	vectors  *store.VectorStore
	manifest *store.Manifest
}

func New(cfg *config.Config) (*App, error) {
	length, err := chunker.LengthFuncFor(cfg.ChunkLengthUnit)
	if err != nil {
		return nil, err
	}

	factory, err := chunker.NewFactory(chunker.Config{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Separators:   cfg.ChunkSeparators,
		Length:       length,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	embedder, err := embed.New(embed.Config{
		Provider:    cfg.EmbedProvider,
		Dimension:   cfg.EmbedDimension,
		CacheSize:   cfg.EmbedCacheSize,
		OllamaURL:   cfg.OllamaURL,
		OllamaModel: cfg.OllamaEmbedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &App{
		cfg:     cfg,
		factory: factory,
		extractor: extract.New(extract.Options{
			CleanPDF: cfg.CleanText,
			Timeout:  cfg.FetchTimeout,
		}),
		embedder: embedder,
	}, nil
}

// Init загружает векторную базу и манифест из каталога данных
func (a *App) Init() error {
	if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	manifest, err := store.LoadManifest(a.cfg.MetadataFile)
	if err != nil {
		log.Printf("⚠️  Failed to load metadata, starting fresh: %v", err)
		manifest = store.NewManifest("")
	}

	// Инвалидируем индекс, если каталог данных сменился
	absDataDir, err := filepath.Abs(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute data dir: %w", err)
	}
	if manifest.DataPath != "" && manifest.DataPath != absDataDir {
		log.Printf("Data directory changed from %s to %s, invalidating metadata and index...", manifest.DataPath, absDataDir)
		manifest = store.NewManifest(absDataDir)
		_ = os.Remove(a.cfg.MetadataFile)
		_ = os.Remove(a.cfg.DBFile)
	}
	manifest.DataPath = absDataDir

	vectors, err := store.OpenVectorStore(a.cfg.DBFile, a.cfg.Collection, embed.ChromemFunc(a.embedder))
	if err != nil {
		return fmt.Errorf("failed to load vector database: %w", err)
	}

	log.Printf("Vector database ready: %d chunks from %d files", vectors.Count(), len(manifest.Files))

	a.vectors = vectors
	a.manifest = manifest
	return nil
}

func (a *App) requireIndex() error {
	if a.vectors == nil {
		return fmt.Errorf("vector database is not initialized")
	}
	return nil
}
