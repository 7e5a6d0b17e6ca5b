package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Factory создаёт chunker на основе метода и типа файла.
// Все chunker'ы фабрики используют один Splitter.
type Factory struct {
	splitter *Splitter
}

// NewFactory проверяет конфигурацию и создаёт новую фабрику chunker'ов
func NewFactory(config Config) (*Factory, error) {
	splitter, err := NewSplitter(config)
	if err != nil {
		return nil, err
	}
	return &Factory{splitter: splitter}, nil
}

// Splitter возвращает общий сплиттер фабрики
func (f *Factory) Splitter() *Splitter {
	return f.splitter
}

// GetChunker возвращает подходящий chunker для файла
func (f *Factory) GetChunker(filePath, method string) (Chunker, error) {
	// Если метод явно указан - используем его
	if normalizeMethod(method) != "" {
		return f.GetChunkerByMethod(method)
	}

	// Иначе определяем по расширению файла
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".md", ".markdown":
		return NewMarkdownChunker(f.splitter), nil
	default:
		return NewTextChunker(f.splitter), nil
	}
}

// GetChunkerByMethod возвращает chunker по названию метода
func (f *Factory) GetChunkerByMethod(method string) (Chunker, error) {
	switch normalizeMethod(method) {
	case "markdown", "md":
		return NewMarkdownChunker(f.splitter), nil
	case "recursive", "simple", "text", "txt":
		return NewTextChunker(f.splitter), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}
