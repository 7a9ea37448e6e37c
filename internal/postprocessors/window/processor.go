// Package window splits over-long chunks into fixed-size rune windows.
package window

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per window.
const DefaultChunkSize = 2000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// Processor re-splits chunks longer than the window size.
// Chunks that fit are passed through unchanged.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the window processor.
type Option func(*Processor)

// WithChunkSize sets the window size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new window processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "window"
}

// Process windows every chunk longer than the size limit and renumbers positions.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(chunks))

	for _, c := range chunks {
		runes := []rune(c.Content)
		if len(runes) <= p.chunkSize {
			c.Position = len(out)
			out = append(out, c)
			continue
		}

		step := p.chunkSize - p.overlap
		for start := 0; start < len(runes); start += step {
			end := start + p.chunkSize
			if end > len(runes) {
				end = len(runes)
			}

			w := c
			w.ID = uuid.New().String()
			w.Content = string(runes[start:end])
			w.Position = len(out)
			w.Metadata = copyMetadata(c.Metadata)
			w.Metadata["window_of"] = c.ID
			out = append(out, w)

			if end == len(runes) {
				break
			}
		}
	}

	return out, nil
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
