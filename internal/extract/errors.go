package extract

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrInvalidPDF        = errors.New("invalid PDF format")
	ErrCorruptDocument   = errors.New("corrupt document")
	ErrFetch             = errors.New("fetch failed")
)

// ExtractionError reports why a source could not be turned into text.
type ExtractionError struct {
	Source string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Source, e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
