// Package compact drops blank chunks from a pipeline.
package compact

import (
	"context"
	"strings"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// Processor removes whitespace-only chunks and renumbers positions.
type Processor struct{}

// New creates a compaction processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "compact"
}

// Process keeps chunks with visible content, in order.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	kept := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		c.Position = len(kept)
		kept = append(kept, c)
	}
	return kept, nil
}
