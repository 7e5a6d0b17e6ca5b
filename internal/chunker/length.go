package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LengthFunc измеряет длину текста в единицах, в которых задан ChunkSize.
type LengthFunc func(string) int

// RuneCount - длина в символах (рунах). Используется по умолчанию.
func RuneCount(s string) int { return utf8.RuneCountInString(s) }

// ByteCount - длина в байтах UTF-8.
func ByteCount(s string) int { return len(s) }

// WordCount - число слов, разделённых пробельными символами.
func WordCount(s string) int { return len(strings.Fields(s)) }

// LengthFuncFor возвращает функцию длины по названию единицы измерения.
func LengthFuncFor(unit string) (LengthFunc, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "chars", "characters", "runes":
		return RuneCount, nil
	case "bytes":
		return ByteCount, nil
	case "words":
		return WordCount, nil
	default:
		return nil, &ConfigError{Field: "Length", Reason: fmt.Sprintf("unknown length unit %q", unit)}
	}
}
