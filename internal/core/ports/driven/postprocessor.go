package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// PostProcessor is one stage of the chunking pipeline.
type PostProcessor interface {
	// Name is the key the stage is configured under.
	Name() string

	// Process returns the chunks after this stage. The first stage is
	// handed nil and splits doc.Content; later stages rewrite chunks.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline splits a document into ordered chunks.
type PostProcessorPipeline interface {
	// Process returns the chunks of doc with Position set to their index.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
