// Package pdf extracts the text layer of PDF papers.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrNoText is returned when a PDF has no extractable text layer,
// typically a scanned document without OCR.
var ErrNoText = errors.New("no extractable text found in PDF")

// maxTitleLength bounds the first-line title heuristic.
const maxTitleLength = 200

// Extraction is the text layer of a PDF.
type Extraction struct {
	Text  string
	Pages int
}

// Extractor pulls the text layer out of PDF bytes.
type Extractor interface {
	Extract(ctx context.Context, content []byte) (*Extraction, error)
}

// Normaliser handles PDF documents.
type Normaliser struct {
	extractor Extractor
}

// New creates a PDF normaliser backed by github.com/ledongthuc/pdf.
func New() *Normaliser {
	return &Normaliser{extractor: textLayer{}}
}

// NewWithExtractor creates a PDF normaliser with a custom extractor.
func NewWithExtractor(e Extractor) *Normaliser {
	return &Normaliser{extractor: e}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the document text, one text line per line.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: empty PDF", domain.ErrInvalidInput)
	}

	extraction, err := n.extractor.Extract(ctx, raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, raw.URI, err)
	}

	content := sanitize(extraction.Text)
	if content == "" {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, raw.URI, ErrNoText)
	}
	logger.Debug("pdf: %s: %d pages, %d bytes of text", raw.URI, extraction.Pages, len(content))

	doc := raw.NewDocument(uuid.NewString(), extractTitle(content, raw), content)
	doc.Metadata["pages"] = extraction.Pages

	return &driven.NormaliseResult{Document: doc}, nil
}

// textLayer reads PDFs with github.com/ledongthuc/pdf.
type textLayer struct{}

func (textLayer) Extract(ctx context.Context, content []byte) (result *Extraction, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("read extracted text: %w", err)
	}

	return &Extraction{Text: buf.String(), Pages: r.NumPage()}, nil
}

// sanitize drops NUL and other control characters except line breaks and
// tabs, folds CR line endings and trims the result.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		switch {
		case ch == '\n' || ch == '\t':
			b.WriteRune(ch)
		case ch == '\r':
			b.WriteRune('\n')
		case ch < 0x20 || ch == 0x7f:
		default:
			b.WriteRune(ch)
		}
	}
	return strings.TrimSpace(b.String())
}

// extractTitle uses the first short non-empty line, which in a paper is
// normally the title, falling back to the metadata or filename.
func extractTitle(content string, raw *domain.RawDocument) string {
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line != "" && len(line) < maxTitleLength {
			return line
		}
	}
	return raw.Title()
}
