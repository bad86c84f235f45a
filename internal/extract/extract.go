// Package extract turns uploaded chapter documents into plain text for
// question generation.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindTXT  Kind = "txt"
)

// ErrUnsupportedFormat is returned for documents no extractor handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrEmptyDocument is returned when extraction succeeds but yields no text.
// An empty chapter never reaches question generation.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// KindOf maps a filename to its document kind.
func KindOf(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	case ".txt", ".text", ".md":
		return KindTXT, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// MIMEType returns the content type used when a document is handed to a
// model for transcription.
func (k Kind) MIMEType() string {
	switch k {
	case KindPDF:
		return "application/pdf"
	case KindDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}

// Extractor pulls plain text out of one class of document.
type Extractor interface {
	// Supports reports whether this extractor handles the given kind.
	Supports(kind Kind) bool
	// Extract returns the document's text content.
	Extract(ctx context.Context, kind Kind, data []byte) (string, error)
}

// ExtractionError aggregates the failures from every extractor that was
// tried for a document.
type ExtractionError struct {
	Name string
	Errs []error
}

func (e *ExtractionError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("extract %s: %s", e.Name, strings.Join(msgs, "; "))
}

func (e *ExtractionError) Unwrap() []error { return e.Errs }

// Chain tries extractors in priority order; the first success wins.
type Chain struct {
	extractors []Extractor
}

func NewChain(extractors ...Extractor) *Chain {
	return &Chain{extractors: extractors}
}

// Extract resolves the document kind from name and runs the chain. The
// returned text is trimmed and guaranteed non-empty.
func (c *Chain) Extract(ctx context.Context, name string, data []byte) (string, error) {
	kind, err := KindOf(name)
	if err != nil {
		return "", err
	}

	var errs []error
	tried := false
	for _, ex := range c.extractors {
		if !ex.Supports(kind) {
			continue
		}
		tried = true
		text, err := ex.Extract(ctx, kind, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			errs = append(errs, ErrEmptyDocument)
			continue
		}
		return text, nil
	}

	if !tried {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
	return "", &ExtractionError{Name: name, Errs: errs}
}
