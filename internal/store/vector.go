package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/philippgille/chromem-go"
)

// SearchResult is one similarity match from the collection.
type SearchResult struct {
	ID         string
	Content    string
	Source     string
	ChunkID    string
	Similarity float32
}

// VectorStore keeps embedded chunks in a chromem-go collection that is
// imported from and exported to a single gzip file.
type VectorStore struct {
	db         *chromem.DB
	coll       *chromem.Collection
	path       string
	collection string
}

// OpenVectorStore loads the collection from path if the file exists, otherwise starts empty.
// ef embeds search queries; stored chunks carry their own vectors.
func OpenVectorStore(path, collection string, ef chromem.EmbeddingFunc) (*VectorStore, error) {
	db := chromem.NewDB()

	if _, err := os.Stat(path); err == nil {
		log.Printf("Loading vector database from: %s", path)
		if err := db.ImportFromFile(path, "", collection); err != nil {
			return nil, fmt.Errorf("failed to import DB: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	} else {
		log.Printf("No existing DB file found, starting fresh")
	}

	coll, err := db.GetOrCreateCollection(collection, map[string]string{}, ef)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection %q: %w", collection, err)
	}

	return &VectorStore{db: db, coll: coll, path: path, collection: collection}, nil
}

// Replace removes every document previously stored for source and adds records in its place.
func (v *VectorStore) Replace(ctx context.Context, source string, records []Record) error {
	if err := v.coll.Delete(ctx, map[string]string{"source": source}, nil); err != nil {
		return fmt.Errorf("delete previous chunks of %s: %w", source, err)
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, chromem.Document{
			ID:        source + "#" + r.ID,
			Content:   r.Text,
			Embedding: r.Embedding,
			Metadata: map[string]string{
				"source":   source,
				"chunk_id": r.ID,
			},
		})
	}

	if err := v.coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add chunks of %s: %w", source, err)
	}
	return nil
}

// Query returns up to topK documents most similar to text, best first.
func (v *VectorStore) Query(ctx context.Context, text string, topK int) ([]SearchResult, error) {
	if n := v.coll.Count(); topK > n {
		topK = n
	}
	if topK <= 0 {
		return nil, nil
	}

	results, err := v.coll.Query(ctx, text, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			ID:         r.ID,
			Content:    r.Content,
			Source:     r.Metadata["source"],
			ChunkID:    r.Metadata["chunk_id"],
			Similarity: r.Similarity,
		})
	}
	return out, nil
}

// Count returns the number of stored chunks.
func (v *VectorStore) Count() int {
	return v.coll.Count()
}

// Save exports the collection to the store file.
func (v *VectorStore) Save() error {
	if err := os.MkdirAll(filepath.Dir(v.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := v.db.ExportToFile(v.path, true, "", v.collection); err != nil {
		return fmt.Errorf("failed to export DB: %w", err)
	}
	return nil
}
