package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest records which local files are already in the vector store.
type Manifest struct {
	Files    map[string]FileInfo `json:"files"`
	DataPath string              `json:"data_path"`
}

type FileInfo struct {
	Path         string    `json:"path"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
	Chunks       int       `json:"chunks"`
}

// NewManifest returns an empty manifest for dataPath
func NewManifest(dataPath string) *Manifest {
	return &Manifest{Files: make(map[string]FileInfo), DataPath: dataPath}
}

// LoadManifest reads the manifest at path. A missing file yields an empty manifest.
func LoadManifest(path string) (*Manifest, error) {
	m := NewManifest("")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return m, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if m.Files == nil {
		m.Files = make(map[string]FileInfo)
	}
	return m, nil
}

// Save writes the manifest to path
func (m *Manifest) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Unchanged reports whether path was indexed with the same size and modification time
func (m *Manifest) Unchanged(path string, info os.FileInfo) bool {
	prev, ok := m.Files[path]
	return ok && prev.Size == info.Size() && prev.LastModified.Equal(info.ModTime())
}

// Record stores the state of an indexed file
func (m *Manifest) Record(path string, info os.FileInfo, chunks int) {
	m.Files[path] = FileInfo{
		Path:         path,
		LastModified: info.ModTime(),
		Size:         info.Size(),
		Chunks:       chunks,
	}
}
