package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
)

// Ollama embeds text with a local Ollama server through chromem-go.
type Ollama struct {
	fn        chromem.EmbeddingFunc
	model     string
	dimension int
	retry     RetryConfig
}

// NewOllama creates an Ollama embedder. baseURL is the server root, e.g. http://localhost:11434.
// A positive dimension is enforced on every returned vector.
func NewOllama(baseURL, model string, dimension int, retry RetryConfig) (*Ollama, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: ollama model is empty", ErrUnsupportedProvider)
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: ollama url is empty", ErrUnsupportedProvider)
	}
	apiURL := strings.TrimRight(baseURL, "/") + "/api"
	return &Ollama{
		fn:        chromem.NewEmbeddingFuncOllama(model, apiURL),
		model:     model,
		dimension: dimension,
		retry:     retry,
	}, nil
}

func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	vector, err := retryWithBackoff(ctx, o.retry, func() ([]float32, error) {
		return o.fn(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed (%s): %w", o.model, err)
	}
	if o.dimension > 0 && len(vector) != o.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), o.dimension)
	}
	return vector, nil
}

func (o *Ollama) Dimension() int { return o.dimension }

func (o *Ollama) Name() string { return ProviderOllama }
