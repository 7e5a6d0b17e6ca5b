package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	DataDir         string        `env:"DATA_DIR" envDefault:"./data"`
	OutputFile      string        `env:"OUTPUT_FILE"`
	ChunkMethod     string        `env:"CHUNK_METHOD"`
	ChunkSize       int           `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap    int           `env:"CHUNK_OVERLAP" envDefault:"200"`
	ChunkSeparators []string      `env:"CHUNK_SEPARATORS" envSeparator:"|" envDefault:"\n\n|\n| |"`
	ChunkLengthUnit string        `env:"CHUNK_LENGTH_UNIT" envDefault:"chars"`
	CleanText       bool          `env:"CLEAN_TEXT" envDefault:"true"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"60s"`

	EmbedProvider    string `env:"EMBED_PROVIDER" envDefault:"stub"`
	EmbedDimension   int    `env:"EMBED_DIMENSION" envDefault:"768"`
	EmbedCacheSize   int    `env:"EMBED_CACHE_SIZE" envDefault:"10000"`
	OllamaURL        string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaEmbedModel string `env:"OLLAMA_EMBED_MODEL" envDefault:"nomic-embed-text"`
	MaxConcurrency   int    `env:"MAX_CONCURRENCY" envDefault:"4"`

	Collection    string  `env:"COLLECTION" envDefault:"docs"`
	TopK          int     `env:"TOP_K" envDefault:"5"`
	MinSimilarity float32 `env:"MIN_SIMILARITY" envDefault:"0.3"`

	MetadataFile string
	DBFile       string
}

// escapes раскрывает escape-последовательности, которые нельзя передать через переменную окружения напрямую
var escapes = strings.NewReplacer(`\n`, "\n", `\r`, "\r", `\t`, "\t", `\\`, `\`)

func Init(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}

	for i, sep := range cfg.ChunkSeparators {
		cfg.ChunkSeparators[i] = escapes.Replace(sep)
	}

	cfg.Derive()
	return nil
}

// Derive вычисляет пути к файлам БД на основе каталога данных
func (c *Config) Derive() {
	c.MetadataFile = filepath.Join(c.DataDir, "metadata.json")
	c.DBFile = filepath.Join(c.DataDir, "vectors.gob.gz")
}
