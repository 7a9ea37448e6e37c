package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// IndexStore persists named collections of (chunk, vector, metadata) triples.
// Collections are only ever appended to.
type IndexStore interface {
	// EnsureIndex creates the index if absent and returns its handle.
	// An existing index with different dimensions is an error.
	EnsureIndex(ctx context.Context, handle domain.IndexHandle) (domain.IndexHandle, error)

	// GetIndex returns the handle for a stored index, or domain.ErrNotFound.
	GetIndex(ctx context.Context, name string) (domain.IndexHandle, error)

	// ListIndexes returns all stored indexes ordered by name.
	ListIndexes(ctx context.Context) ([]domain.IndexHandle, error)

	// AppendChunks stores chunks with their embeddings under the index.
	AppendChunks(ctx context.Context, indexName string, chunks []domain.Chunk) error

	// GetChunk returns one chunk of the index, or domain.ErrNotFound.
	GetChunk(ctx context.Context, indexName, chunkID string) (*domain.Chunk, error)

	// ListChunks returns every chunk of the index in insertion order,
	// embeddings included. Unreadable rows are skipped.
	ListChunks(ctx context.Context, indexName string) ([]domain.Chunk, error)

	// CountChunks returns the number of chunks in the index.
	CountChunks(ctx context.Context, indexName string) (int, error)

	// Close releases the store handle.
	Close() error
}
