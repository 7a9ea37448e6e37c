// Package flat provides exact nearest-neighbour search by cosine similarity.
//
// Vectors are held in memory in insertion order and every query scans all
// of them, so results are deterministic for a fixed set of vectors.
// Persistence is the job of the IndexStore; a flat Index is rebuilt from
// stored chunks when an index is opened.
package flat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// ErrClosed is returned by operations on a closed index.
var ErrClosed = errors.New("flat: index is closed")

type entry struct {
	chunkID string
	vector  []float32
}

// Index is an exact cosine similarity index.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry
	positions map[string]int
	closed    bool
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("flat: dimension must be positive")
	}
	return &Index{
		dimension: dimension,
		positions: make(map[string]int),
	}, nil
}

// NewVectorIndex is New as a driven.VectorIndexFactory.
func NewVectorIndex(dimension int) (driven.VectorIndex, error) {
	idx, err := New(dimension)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Dimension returns the vector size the index accepts.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Add inserts or replaces the vector for the given chunk ID.
// The vector is copied and normalised.
func (idx *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}
	if len(embedding) != idx.dimension {
		return fmt.Errorf("flat: embedding dimension mismatch: got %d, want %d", len(embedding), idx.dimension)
	}

	v := domain.Normalize(append([]float32(nil), embedding...))
	if pos, ok := idx.positions[chunkID]; ok {
		idx.entries[pos].vector = v
		return nil
	}

	idx.positions[chunkID] = len(idx.entries)
	idx.entries = append(idx.entries, entry{chunkID: chunkID, vector: v})
	return nil
}

// Delete removes a vector from the index. Unknown IDs are ignored.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	pos, ok := idx.positions[chunkID]
	if !ok {
		return nil
	}

	idx.entries = append(idx.entries[:pos], idx.entries[pos+1:]...)
	delete(idx.positions, chunkID)
	for i := pos; i < len(idx.entries); i++ {
		idx.positions[idx.entries[i].chunkID] = i
	}
	return nil
}

// Search finds the k vectors most similar to query.
// Equal scores keep insertion order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, ErrClosed
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("flat: query dimension mismatch: got %d, want %d", len(query), idx.dimension)
	}
	if k <= 0 || len(idx.entries) == 0 {
		return nil, nil
	}

	hits := make([]driven.VectorHit, len(idx.entries))
	for i, e := range idx.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = driven.VectorHit{
			ChunkID:    e.chunkID,
			Similarity: domain.CosineSimilarity(query, e.vector),
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of vectors held.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.closed = true
	idx.entries = nil
	idx.positions = nil
	return nil
}
