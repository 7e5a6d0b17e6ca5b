package chunker

import (
	"fmt"
	"strings"
)

// ChunkID формирует стабильный идентификатор чанка по его номеру.
func ChunkID(index int) string {
	return fmt.Sprintf("chunk_%d", index)
}

// CreateChunk создаёт чанк с идентификатором по порядковому номеру
func CreateChunk(index int, seg Segment, source, section string, metadata map[string]string) Chunk {
	if metadata == nil {
		metadata = make(map[string]string)
	}

	return Chunk{
		ID:       ChunkID(index),
		Text:     seg.Text,
		Source:   source,
		Section:  section,
		Offset:   seg.Start,
		Metadata: metadata,
	}
}

// shiftSegments переводит смещения сегментов из координат подстроки в координаты документа.
func shiftSegments(segments []Segment, base int) []Segment {
	for i := range segments {
		segments[i].Start += base
		segments[i].End += base
	}
	return segments
}

// normalizeMethod приводит название метода к каноничному виду.
func normalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}
