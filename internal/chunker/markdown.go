package chunker

import (
	"fmt"
	"log"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// maxSectionLevel - заголовки глубже H4 не используются как границы секций.
const maxSectionLevel = 4

// MarkdownChunker режет markdown на секции по заголовкам и разбивает каждую
// секцию рекурсивным сплиттером. Чанки не пересекают границы секций.
type MarkdownChunker struct {
	splitter *Splitter
}

// NewMarkdownChunker создаёт новый markdown chunker
func NewMarkdownChunker(splitter *Splitter) *MarkdownChunker {
	return &MarkdownChunker{splitter: splitter}
}

func (m *MarkdownChunker) Name() string {
	return "markdown"
}

// DocumentStructure содержит информацию о структуре документа
type DocumentStructure struct {
	HeadingCounts   map[int]int // уровень заголовка -> количество
	TotalParagraphs int
}

// headingInfo - заголовок верхнего уровня документа и байтовое начало его строки.
type headingInfo struct {
	Level int
	Title string
	Start int
}

// section - непрерывный кусок исходного markdown от заголовка до следующей границы.
type section struct {
	Title  string
	Parent string
	Level  int
	Start  int
	End    int
}

func (m *MarkdownChunker) Chunk(content, source string) ([]Chunk, error) {
	src := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	headings, structure := m.analyzeStructure(doc, src)

	level, err := m.selectLevel(structure)
	if err != nil {
		// Явно возвращаем ошибку - пусть вызывающий код решает что делать
		return nil, fmt.Errorf("markdown chunker cannot process this content: %w", err)
	}

	log.Printf("📊 [%s] Document structure: headings=%v, paragraphs=%d",
		m.Name(), structure.HeadingCounts, structure.TotalParagraphs)
	log.Printf("🎯 [%s] Selected strategy: heading (level %d)", m.Name(), level)

	var chunks []Chunk
	for _, sec := range splitSections(headings, level, len(src)) {
		segments := shiftSegments(m.splitter.Segments(content[sec.Start:sec.End]), sec.Start)
		for _, seg := range segments {
			metadata := map[string]string{
				"method": m.Name(),
				"level":  fmt.Sprintf("%d", sec.Level),
			}
			if sec.Parent != "" && sec.Parent != sec.Title {
				metadata["parent_section"] = sec.Parent
			}
			chunks = append(chunks, CreateChunk(len(chunks), seg, source, sec.Title, metadata))
		}
	}

	log.Printf("✅ [%s] Created %d chunks", m.Name(), len(chunks))
	return chunks, nil
}

// analyzeStructure собирает заголовки верхнего уровня и статистику документа
func (m *MarkdownChunker) analyzeStructure(doc ast.Node, src []byte) ([]headingInfo, DocumentStructure) {
	structure := DocumentStructure{
		HeadingCounts: make(map[int]int),
	}
	var headings []headingInfo

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Paragraph:
			structure.TotalParagraphs++
		case *ast.Heading:
			// Заголовки внутри списков и цитат не считаются границами
			if node.Parent() != doc || node.Lines().Len() == 0 {
				return ast.WalkSkipChildren, nil
			}
			structure.HeadingCounts[node.Level]++
			headings = append(headings, headingInfo{
				Level: node.Level,
				Title: strings.TrimSpace(extractText(node, src)),
				Start: lineStart(src, node.Lines().At(0).Start),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return headings, structure
}

// selectLevel выбирает уровень заголовков для разбиения: самый крупный уровень,
// встречающийся хотя бы дважды, иначе самый крупный из присутствующих.
func (m *MarkdownChunker) selectLevel(structure DocumentStructure) (int, error) {
	for level := 1; level <= maxSectionLevel; level++ {
		if structure.HeadingCounts[level] >= 2 {
			return level, nil
		}
	}
	for level := 1; level <= maxSectionLevel; level++ {
		if structure.HeadingCounts[level] > 0 {
			return level, nil
		}
	}

	// Нет подходящей markdown структуры - возвращаем ошибку
	return 0, fmt.Errorf("%w (headings: %v, paragraphs: %d)",
		ErrNoStructure, structure.HeadingCounts, structure.TotalParagraphs)
}

// splitSections нарезает документ на секции по заголовкам уровня <= level.
// Текст до первого заголовка становится секцией без названия.
func splitSections(headings []headingInfo, level, size int) []section {
	var sections []section
	var parent string
	current := section{Start: 0}

	for _, h := range headings {
		if h.Level > level {
			continue
		}
		current.End = h.Start
		if current.End > current.Start {
			sections = append(sections, current)
		}
		if h.Level < level {
			parent = h.Title
		}
		current = section{Title: h.Title, Parent: parent, Level: h.Level, Start: h.Start}
	}
	current.End = size
	if current.End > current.Start {
		sections = append(sections, current)
	}
	return sections
}

// lineStart возвращает начало строки, содержащей позицию pos.
func lineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}

// extractText извлекает текст из узла AST, включая вложенные inline-узлы
func extractText(node ast.Node, source []byte) string {
	var buf strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(source))
			if n.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(n.Value)
		default:
			buf.WriteString(extractText(child, source))
		}
	}
	return buf.String()
}
