package chunker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig - базовая ошибка для всех ConfigError.
	ErrInvalidConfig = errors.New("invalid chunker config")
	// ErrNoStructure возвращается MarkdownChunker'ом, если в документе нет заголовков.
	ErrNoStructure = errors.New("no suitable markdown structure")
	// ErrUnknownMethod - неизвестный метод разбиения.
	ErrUnknownMethod = errors.New("unknown chunking method")
)

// ConfigError описывает некорректное поле Config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
