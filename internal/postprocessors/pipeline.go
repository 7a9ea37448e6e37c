// Package postprocessors turns document text into the ordered chunks
// stored in an embedding index.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Pipeline runs stages in order. The first stage receives no chunks and
// produces them; later stages rewrite the slice they are given.
//
// After the last stage every chunk is stamped with its document, its source
// and a Position equal to its index, so the stored order always matches the
// order of the text.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline creates a pipeline running stages in the order given.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process splits doc into chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		logger.Debug("pipeline: %s -> %d chunks", stage.Name(), len(chunks))
	}

	stamp(doc, chunks)
	return chunks, nil
}

// Add appends a stage.
func (p *Pipeline) Add(stage driven.PostProcessor) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// String lists the stage names, for example "lines > compact > window".
func (p *Pipeline) String() string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return strings.Join(names, " > ")
}

func stamp(doc *domain.Document, chunks []domain.Chunk) {
	for i := range chunks {
		c := &chunks[i]
		c.Position = i
		if c.DocumentID == "" {
			c.DocumentID = doc.ID
		}
		if c.Source == "" {
			c.Source = doc.Source
		}
		if c.Metadata == nil {
			c.Metadata = make(map[string]any, 1)
		}
		if _, ok := c.Metadata[domain.MetadataSource]; !ok {
			c.Metadata[domain.MetadataSource] = c.Source
		}
	}
}
