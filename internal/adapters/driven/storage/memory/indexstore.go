package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu      sync.RWMutex
	indexes map[string]domain.IndexHandle
	chunks  map[string][]domain.Chunk
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		indexes: make(map[string]domain.IndexHandle),
		chunks:  make(map[string][]domain.Chunk),
	}
}

// EnsureIndex creates the index if absent and returns its handle.
func (s *IndexStore) EnsureIndex(_ context.Context, handle domain.IndexHandle) (domain.IndexHandle, error) {
	if handle.Name == "" || handle.Dimensions <= 0 {
		return domain.IndexHandle{}, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.indexes[handle.Name]; ok {
		if existing.Dimensions != handle.Dimensions {
			return domain.IndexHandle{}, fmt.Errorf(
				"%w: index %q holds %d-dimension vectors, embedding model produces %d",
				domain.ErrModelUnavailable, handle.Name, existing.Dimensions, handle.Dimensions)
		}
		existing.Chunks = len(s.chunks[handle.Name])
		return existing, nil
	}

	if handle.CreatedAt.IsZero() {
		handle.CreatedAt = time.Now().UTC()
	}
	handle.Chunks = 0
	s.indexes[handle.Name] = handle
	return handle, nil
}

// GetIndex returns the handle for a stored index.
func (s *IndexStore) GetIndex(_ context.Context, name string) (domain.IndexHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.indexes[name]
	if !ok {
		return domain.IndexHandle{}, domain.ErrNotFound
	}
	h.Chunks = len(s.chunks[name])
	return h, nil
}

// ListIndexes returns all indexes ordered by name.
func (s *IndexStore) ListIndexes(_ context.Context) ([]domain.IndexHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handles := make([]domain.IndexHandle, 0, len(s.indexes))
	for name, h := range s.indexes {
		h.Chunks = len(s.chunks[name])
		handles = append(handles, h)
	}
	slices.SortFunc(handles, func(a, b domain.IndexHandle) int {
		return strings.Compare(a.Name, b.Name)
	})
	return handles, nil
}

// AppendChunks stores chunks after the existing ones.
func (s *IndexStore) AppendChunks(_ context.Context, indexName string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for i := range chunks {
		if len(chunks[i].Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, chunks[i].ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.indexes[indexName]; !ok {
		return domain.ErrNotFound
	}
	for i := range chunks {
		s.chunks[indexName] = append(s.chunks[indexName], cloneChunk(chunks[i]))
	}
	return nil
}

// GetChunk returns one chunk of the index.
func (s *IndexStore) GetChunk(_ context.Context, indexName, chunkID string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.chunks[indexName] {
		if c.ID == chunkID {
			found := cloneChunk(c)
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListChunks returns every chunk of the index in insertion order.
func (s *IndexStore) ListChunks(_ context.Context, indexName string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.indexes[indexName]; !ok {
		return nil, domain.ErrNotFound
	}
	stored := s.chunks[indexName]
	out := make([]domain.Chunk, len(stored))
	for i := range stored {
		out[i] = cloneChunk(stored[i])
	}
	return out, nil
}

// CountChunks returns the number of chunks in the index.
func (s *IndexStore) CountChunks(_ context.Context, indexName string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[indexName]), nil
}

// Close is a no-op for the memory store.
func (s *IndexStore) Close() error {
	return nil
}

func cloneChunk(c domain.Chunk) domain.Chunk {
	c.Embedding = slices.Clone(c.Embedding)
	if c.Metadata != nil {
		md := make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			md[k] = v
		}
		c.Metadata = md
	}
	return c
}
