// Package extract turns a document locator into plain text.
//
// A locator is a local path, an http(s) URL, or a base64 data URI. PDF files
// are decoded page by page; text and markdown are returned as is. The result is
// always NFC-normalized with LF line endings.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Format of a decoded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// minBarePayload is the shortest string accepted as a bare base64 payload.
const minBarePayload = 16

// DefaultMaxDownloadSize bounds remote documents.
const DefaultMaxDownloadSize = 100 << 20

// Options configures an Extractor.
type Options struct {
	// CleanPDF strips page numbers, rule lines and copyright footers from PDF text.
	CleanPDF bool
	// Timeout for remote sources. Zero means no timeout beyond the context.
	Timeout time.Duration
	// Client used for http(s) sources. Defaults to a client with Timeout.
	Client *http.Client
	// MaxDownloadSize in bytes. Zero means DefaultMaxDownloadSize.
	MaxDownloadSize int64
}

// Extractor implements text extraction for local, remote and inline sources.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	cleanPDF bool
	client   *http.Client
	maxSize  int64
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	maxSize := opts.MaxDownloadSize
	if maxSize <= 0 {
		maxSize = DefaultMaxDownloadSize
	}
	return &Extractor{cleanPDF: opts.CleanPDF, client: client, maxSize: maxSize}
}

// Extract returns the plain text of the document at source.
// Every failure is an *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, source string) (string, error) {
	data, name, err := e.load(ctx, source)
	if err != nil {
		return "", &ExtractionError{Source: source, Reason: "source is unreadable", Err: err}
	}

	format, err := DetectFormat(name, data)
	if err != nil {
		return "", &ExtractionError{Source: source, Reason: "format is not supported", Err: err}
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = decodePDF(data)
		if err != nil {
			return "", &ExtractionError{Source: source, Reason: "PDF could not be decoded", Err: err}
		}
		if e.cleanPDF {
			text = CleanText(text)
		}
	default:
		text = string(data)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	return norm.NFC.String(text), nil
}

// DetectFormat picks the decoder from the file extension, falling back to the content.
func DetectFormat(name string, data []byte) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		if !bytes.HasPrefix(data, pdfMagic) {
			return "", ErrInvalidPDF
		}
		return FormatPDF, nil
	case ".txt", ".text", ".md", ".markdown":
		return FormatText, nil
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return FormatPDF, nil
	}
	if utf8.Valid(data) {
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}

// load reads the raw bytes of a source and returns a name usable for format detection.
func (e *Extractor) load(ctx context.Context, source string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return e.fetch(ctx, source)
	case strings.HasPrefix(source, "data:"), strings.HasPrefix(source, "base64,"):
		return decodeInline(source)
	default:
		data, err := os.ReadFile(source)
		if errors.Is(err, fs.ErrNotExist) {
			// Not a file: may be a bare base64 payload
			if data, ok := decodeBare(source); ok {
				return data, "inline", nil
			}
		}
		if err != nil {
			return nil, "", err
		}
		return data, filepath.ToSlash(source), nil
	}
}

func (e *Extractor) fetch(ctx context.Context, source string) ([]byte, string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %s", ErrFetch, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	if int64(len(data)) > e.maxSize {
		return nil, "", fmt.Errorf("%w: document is larger than %d bytes", ErrFetch, e.maxSize)
	}
	return data, u.Path, nil
}

// decodeBare accepts a bare base64 payload. Short strings and strings with
// characters outside the standard alphabet are not treated as payloads.
func decodeBare(source string) ([]byte, bool) {
	source = strings.TrimSpace(source)
	if len(source) < minBarePayload || len(source)%4 != 0 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(source)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// decodeInline handles "data:application/pdf;base64,<payload>" and "base64,<payload>".
func decodeInline(source string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(source, ",")
	if !ok || !strings.HasSuffix(header, "base64") {
		return nil, "", fmt.Errorf("%w: inline source must be base64 encoded", ErrUnsupportedFormat)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}

	name := "inline"
	if strings.Contains(header, "application/pdf") {
		name = "inline.pdf"
	}
	return data, name, nil
}
