package driven

import "context"

// VectorIndex holds the embeddings of one open index in memory and ranks
// them by cosine similarity. Equal scores are returned in a stable order.
type VectorIndex interface {
	Add(ctx context.Context, chunkID string, embedding []float32) error
	Delete(ctx context.Context, chunkID string) error

	// Search returns at most k hits, best first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	Len() int
	Close() error
}

// VectorHit pairs a chunk ID with its cosine similarity to the query.
type VectorHit struct {
	ChunkID    string
	Similarity float64
}

// VectorIndexFactory builds an empty index for vectors of the given size.
// IndexService calls it once per opened index.
type VectorIndexFactory func(dimensions int) (VectorIndex, error)
