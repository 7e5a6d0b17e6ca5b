package chunker

// Chunk представляет единицу текста для векторизации
type Chunk struct {
	ID       string            // Стабильный идентификатор: chunk_<index>
	Text     string            // Текст чанка
	Source   string            // Имя исходного документа
	Section  string            // Название секции (заголовок markdown), может быть пустым
	Offset   int               // Байтовое смещение начала чанка в исходном тексте
	Metadata map[string]string // Дополнительные метаданные
}

// Chunker - интерфейс для всех типов chunker'ов
type Chunker interface {
	// Chunk разбивает контент на чанки
	Chunk(content, source string) ([]Chunk, error)

	// Name возвращает название chunker'а для логирования
	Name() string
}

// Config содержит параметры рекурсивного разбиения.
// После передачи в NewSplitter не изменяется.
type Config struct {
	ChunkSize    int        // Максимальный размер чанка в единицах Length
	ChunkOverlap int        // Размер overlap между соседними чанками
	Separators   []string   // Разделители от крупных к мелким; "" - разбиение по символам
	Length       LengthFunc // Функция измерения длины, по умолчанию RuneCount
}

// DefaultSeparators - абзацы, строки, слова, символы.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// DefaultConfig возвращает параметры исходного пайплайна: 1000 символов, overlap 200.
func DefaultConfig() Config {
	seps := make([]string, len(DefaultSeparators))
	copy(seps, DefaultSeparators)
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Separators:   seps,
		Length:       RuneCount,
	}
}

// Validate проверяет инварианты конфигурации.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return &ConfigError{Field: "ChunkSize", Reason: "must be positive"}
	}
	if c.ChunkOverlap < 0 {
		return &ConfigError{Field: "ChunkOverlap", Reason: "must not be negative"}
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return &ConfigError{Field: "ChunkOverlap", Reason: "must be smaller than ChunkSize"}
	}
	if len(c.Separators) == 0 {
		return &ConfigError{Field: "Separators", Reason: "at least one separator is required"}
	}
	for i, sep := range c.Separators {
		if sep == "" && i != len(c.Separators)-1 {
			return &ConfigError{Field: "Separators", Reason: "empty separator must be the last entry"}
		}
	}
	return nil
}

// Segment - чанк вместе с его байтовым диапазоном во входном тексте.
// Всегда Text == input[Start:End].
type Segment struct {
	Text  string
	Start int
	End   int
}
