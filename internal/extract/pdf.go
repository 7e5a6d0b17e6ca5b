package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF")

// decodePDF concatenates the plain text of every page in page order.
// The pdf package panics on some malformed inputs, so panics are turned into ErrCorruptDocument.
func decodePDF(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", ErrInvalidPDF
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrCorruptDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}
		content, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		buf.WriteString(content)
	}
	return buf.String(), nil
}

var (
	pageNumberLine = regexp.MustCompile(`(?im)^\s*(Page\s*)?\d+(\s*of\s*\d+)?\s*$`)
	ruleLine       = regexp.MustCompile(`(?m)^\s*[-*_•=]{3,}\s*$`)
	copyrightLine  = regexp.MustCompile(`(?im)^Copyright\s*©?.*$`)
	horizontalWS   = regexp.MustCompile(`[ \t]+`)
	blankLines     = regexp.MustCompile(`\n\s*\n+`)
)

// CleanText removes page furniture that PDF extraction leaves behind:
// page numbers, rule lines and copyright footers. Runs of blank lines collapse
// to a single paragraph break so the chunker still sees paragraphs.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	cleaned := pageNumberLine.ReplaceAllString(text, "")
	cleaned = ruleLine.ReplaceAllString(cleaned, "")
	cleaned = copyrightLine.ReplaceAllString(cleaned, "")
	cleaned = horizontalWS.ReplaceAllString(cleaned, " ")
	cleaned = blankLines.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
