package chunker

import (
	"log"
)

// TextChunker разбивает plain text рекурсивным сплиттером с overlap
type TextChunker struct {
	splitter *Splitter
}

// NewTextChunker создаёт новый recursive chunker
func NewTextChunker(splitter *Splitter) *TextChunker {
	return &TextChunker{splitter: splitter}
}

func (t *TextChunker) Name() string {
	return "recursive"
}

func (t *TextChunker) Chunk(content, source string) ([]Chunk, error) {
	segments := t.splitter.Segments(content)
	if len(segments) == 0 {
		log.Printf("⚠️  [%s] No content to chunk in %s", t.Name(), source)
		return nil, nil
	}

	chunks := make([]Chunk, 0, len(segments))
	for i, seg := range segments {
		chunks = append(chunks, CreateChunk(i, seg, source, "", map[string]string{
			"method": t.Name(),
		}))
	}

	log.Printf("✅ [%s] Created %d chunks", t.Name(), len(chunks))
	return chunks, nil
}
