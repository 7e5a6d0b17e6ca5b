package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// span - полуоткрытый байтовый диапазон [start, end) входного текста.
type span struct {
	start, end int
}

// Splitter рекурсивно разбивает текст по списку разделителей и склеивает
// куски в чанки с overlap. Не имеет изменяемого состояния.
type Splitter struct {
	cfg Config
}

// NewSplitter проверяет конфигурацию и создаёт Splitter.
// Список разделителей копируется, поэтому дальнейшие изменения cfg не влияют на Splitter.
func NewSplitter(cfg Config) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seps := make([]string, len(cfg.Separators))
	copy(seps, cfg.Separators)
	cfg.Separators = seps
	if cfg.Length == nil {
		cfg.Length = RuneCount
	}
	return &Splitter{cfg: cfg}, nil
}

// Config возвращает копию конфигурации.
func (s *Splitter) Config() Config {
	cfg := s.cfg
	cfg.Separators = append([]string(nil), s.cfg.Separators...)
	return cfg
}

// Split возвращает тексты чанков в порядке следования в исходном тексте.
func (s *Splitter) Split(text string) []string {
	segments := s.Segments(text)
	if len(segments) == 0 {
		return nil
	}
	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = seg.Text
	}
	return out
}

// Segments работает как Split, но дополнительно возвращает байтовые диапазоны чанков.
func (s *Splitter) Segments(text string) []Segment {
	if text == "" {
		return nil
	}
	spans := s.split(text, span{0, len(text)}, s.cfg.Separators)
	if len(spans) == 0 {
		return nil
	}
	out := make([]Segment, len(spans))
	for i, sp := range spans {
		out[i] = Segment{Text: text[sp.start:sp.end], Start: sp.start, End: sp.end}
	}
	return out
}

func (s *Splitter) measure(text string, sp span) int {
	return s.cfg.Length(text[sp.start:sp.end])
}

// split обрабатывает один уровень рекурсии: выбирает разделитель, режет диапазон
// на куски, слишком большие куски разбивает более мелкими разделителями и
// вставляет результат на их место, затем склеивает всю последовательность.
func (s *Splitter) split(text string, sp span, separators []string) []span {
	sep, finer, ok := selectSeparator(text[sp.start:sp.end], separators)
	if !ok {
		// Неделимый атом: отдаём целиком, даже если он больше ChunkSize
		if atom, ok := trimSpan(text, sp); ok {
			return []span{atom}
		}
		return nil
	}

	var seq []span
	for _, p := range pieces(text, sp, sep) {
		if s.measure(text, p) <= s.cfg.ChunkSize || len(finer) == 0 {
			seq = append(seq, p)
			continue
		}
		seq = append(seq, s.split(text, p, finer)...)
	}
	return s.merge(text, seq, sep)
}

// selectSeparator возвращает первый разделитель, встречающийся в тексте, и более
// мелкие разделители после него. Пустой разделитель встречается всегда.
func selectSeparator(text string, separators []string) (string, []string, bool) {
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			return sep, separators[i+1:], true
		}
	}
	return "", nil, false
}

// pieces режет диапазон по разделителю. Пустые куски отбрасываются,
// при sep == "" каждый символ - отдельный кусок.
func pieces(text string, sp span, sep string) []span {
	var out []span
	if sep == "" {
		for i := sp.start; i < sp.end; {
			_, w := utf8.DecodeRuneInString(text[i:sp.end])
			out = append(out, span{i, i + w})
			i += w
		}
		return out
	}

	start := sp.start
	for {
		idx := strings.Index(text[start:sp.end], sep)
		if idx < 0 {
			break
		}
		if idx > 0 {
			out = append(out, span{start, start + idx})
		}
		start += idx + len(sep)
	}
	if start < sp.end {
		out = append(out, span{start, sp.end})
	}
	return out
}

// merge жадно склеивает подряд идущие куски в чанки не длиннее ChunkSize.
// Текст чанка - исходный текст от начала первого куска до конца последнего,
// поэтому разделители между кусками сохраняются.
func (s *Splitter) merge(text string, run []span, sep string) []span {
	var chunks, buf []span
	for _, p := range run {
		if len(buf) > 0 && s.measure(text, span{buf[0].start, p.end}) > s.cfg.ChunkSize {
			chunks = appendChunk(chunks, text, span{buf[0].start, buf[len(buf)-1].end}, sep)
			buf = s.overlap(text, buf, p)
		}
		buf = append(buf, p)
	}
	if len(buf) > 0 {
		chunks = appendChunk(chunks, text, span{buf[0].start, buf[len(buf)-1].end}, sep)
	}
	return chunks
}

// overlap выбирает самый длинный хвост только что закрытого буфера, который
// укладывается в ChunkOverlap и вместе со следующим куском не превышает ChunkSize.
func (s *Splitter) overlap(text string, buf []span, next span) []span {
	if s.cfg.ChunkOverlap == 0 {
		return nil
	}
	end := buf[len(buf)-1].end
	i := len(buf)
	for i > 0 && s.measure(text, span{buf[i-1].start, end}) <= s.cfg.ChunkOverlap {
		i--
	}
	for i < len(buf) && s.measure(text, span{buf[i].start, next.end}) > s.cfg.ChunkSize {
		i++
	}
	if i == len(buf) {
		return nil
	}
	seed := make([]span, len(buf)-i)
	copy(seed, buf[i:])
	return seed
}

// appendChunk добавляет чанк, обрезая пробельные символы по краям.
// На уровне посимвольного разбиения текст не обрезается.
func appendChunk(chunks []span, text string, sp span, sep string) []span {
	if sep != "" {
		var ok bool
		if sp, ok = trimSpan(text, sp); !ok {
			return chunks
		}
	}
	if sp.end <= sp.start {
		return chunks
	}
	return append(chunks, sp)
}

// trimSpan сужает диапазон, отбрасывая пробельные символы по краям.
// Возвращает false, если в диапазоне одни пробелы.
func trimSpan(text string, sp span) (span, bool) {
	chunk := text[sp.start:sp.end]
	left := strings.TrimLeftFunc(chunk, unicode.IsSpace)
	sp.start += len(chunk) - len(left)
	sp.end = sp.start + len(strings.TrimRightFunc(left, unicode.IsSpace))
	return sp, sp.end > sp.start
}
