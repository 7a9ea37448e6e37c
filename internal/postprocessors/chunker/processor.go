// Package chunker splits document text into line-delimited chunks.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// DefaultDelimiter separates chunks in document text.
const DefaultDelimiter = "\n"

// Split cuts text at every delimiter. Joining the result with the same
// delimiter reproduces text exactly, so empty pieces are kept.
func Split(text, delimiter string) []string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return strings.Split(text, delimiter)
}

// Processor turns each line of a document into a chunk.
// It implements the PostProcessor interface.
type Processor struct {
	delimiter string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithDelimiter sets the split delimiter.
func WithDelimiter(delimiter string) Option {
	return func(p *Processor) {
		if delimiter != "" {
			p.delimiter = delimiter
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		delimiter: DefaultDelimiter,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "lines"
}

// Delimiter returns the split delimiter.
func (p *Processor) Delimiter() string {
	return p.delimiter
}

// Process splits the document content into one chunk per line.
// Input chunks are ignored; this processor creates new chunks from document content.
// Empty lines become empty chunks; a later processor may drop them.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	parts := Split(doc.Content, p.delimiter)
	chunks := make([]domain.Chunk, 0, len(parts))

	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Source:     doc.Source,
			Content:    part,
			Position:   i,
			Metadata:   map[string]any{domain.MetadataSource: doc.Source},
		})
	}

	return chunks, nil
}
