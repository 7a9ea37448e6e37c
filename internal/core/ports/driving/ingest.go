package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// Ingestion is the outcome of loading one document.
type Ingestion struct {
	Document domain.Document
	Chunks   []domain.Chunk
	Index    domain.IndexHandle
}

// IngestService loads documents and indexes them.
type IngestService interface {
	// IngestFile reads, normalises, chunks and indexes the file at path.
	// The source name is the file's base name.
	IngestFile(ctx context.Context, path string) (*Ingestion, error)

	// IngestText chunks and indexes text under source.
	IngestText(ctx context.Context, source, text string) (*Ingestion, error)

	// LoadText reads and normalises a file without indexing it.
	LoadText(ctx context.Context, path string) (*domain.Document, error)
}
