package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"doc_chunker/internal/app"
	"doc_chunker/internal/config"

	"github.com/joho/godotenv"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `Usage:
  doc_chunker [-output out.json] [-method m] [-data dir] <source>...
  doc_chunker -index [-data dir] <path>...
  doc_chunker -query text [-data dir]
  doc_chunker <input> <output.json>

A source is a local path, an http(s) URL or a base64 data URI.
`

type options struct {
	output  string
	method  string
	dataDir string
	query   string
	index   bool
	sources []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usage)
		return exitUsage
	}

	// Флаги имеют приоритет над окружением
	if opts.dataDir != "" {
		os.Setenv("DATA_DIR", opts.dataDir)
	}
	if opts.method != "" {
		os.Setenv("CHUNK_METHOD", opts.method)
	}

	// Загружаем .env (опционально)
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.Init(&cfg); err != nil {
		log.Printf("failed to load config: %v", err)
		return exitError
	}

	output := opts.output
	if output == "" {
		output = cfg.OutputFile
	}
	chunkMode := !opts.index && opts.query == ""
	if chunkMode && output == "" {
		fmt.Fprintf(stderr, "Error: output file is required\n\n%s", usage)
		return exitUsage
	}

	a, err := app.New(&cfg)
	if err != nil {
		log.Printf("failed to create app: %v", err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if chunkMode {
		if err := a.Run(ctx, opts.sources, output); err != nil {
			log.Printf("❌ Processing failed: %v", err)
			return exitError
		}
		return exitOK
	}

	if err := a.Init(); err != nil {
		log.Printf("failed to initialize app: %v", err)
		return exitError
	}

	if opts.index {
		if _, err := a.Index(ctx, opts.sources); err != nil {
			log.Printf("❌ Indexing failed: %v", err)
			return exitError
		}
	}

	if opts.query != "" {
		results, err := a.Search(ctx, opts.query)
		if err != nil {
			log.Printf("❌ Search error: %v", err)
			return exitError
		}
		log.Printf("🔍 Found %d relevant chunks:", len(results))
		for i, r := range results {
			log.Printf("   %d. %s %s (similarity: %.2f)", i+1, r.Source, r.ChunkID, r.Similarity)
			log.Printf("      %s", preview(r.Content, 120))
		}
	}

	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("doc_chunker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	fs.StringVar(&opts.output, "output", "", "Write chunks with embeddings to this JSON file")
	fs.StringVar(&opts.method, "method", "", "Chunking method: recursive or markdown (default: by file extension)")
	fs.StringVar(&opts.dataDir, "data", "", "Data directory for the vector DB")
	fs.StringVar(&opts.query, "query", "", "Search the vector DB")
	fs.BoolVar(&opts.index, "index", false, "Add documents to the vector DB")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		opts.sources = fs.Args()
	}

	// Старая форма: <input> <output.json>
	if opts.output == "" && !opts.index && opts.query == "" && len(opts.sources) == 2 &&
		strings.HasSuffix(strings.ToLower(opts.sources[1]), ".json") {
		opts.output = opts.sources[1]
		opts.sources = opts.sources[:1]
	}

	if len(opts.sources) == 0 && opts.query == "" {
		return opts, errors.New("at least one source is required")
	}
	if opts.query != "" && len(opts.sources) > 0 && !opts.index {
		return opts, errors.New("sources with -query require -index")
	}
	return opts, nil
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
