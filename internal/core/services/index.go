package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// maxIndexNameLength bounds derived index names.
const maxIndexNameLength = 128

// loadedIndex is an index held in memory for search.
type loadedIndex struct {
	vectors driven.VectorIndex
	chunks  map[string]domain.Chunk
}

// IndexService builds per-source embedding indexes and searches them.
// Vectors of an opened index are loaded once per process and kept in sync
// with appends made through this service.
type IndexService struct {
	store    driven.IndexStore
	embedder driven.EmbeddingService
	newIndex driven.VectorIndexFactory
	topK     int
	mu       sync.Mutex
	loaded   map[string]*loadedIndex
}

// IndexOption configures an IndexService.
type IndexOption func(*IndexService)

// WithDefaultTopK sets the result count used when Search is called with k <= 0.
func WithDefaultTopK(k int) IndexOption {
	return func(s *IndexService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewIndexService creates an index service.
func NewIndexService(
	store driven.IndexStore,
	embedder driven.EmbeddingService,
	newIndex driven.VectorIndexFactory,
	opts ...IndexOption,
) *IndexService {
	s := &IndexService{
		store:    store,
		embedder: embedder,
		newIndex: newIndex,
		topK:     domain.DefaultRetrievalTopK,
		loaded:   make(map[string]*loadedIndex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexName derives the storage key for a source name: lower-cased, with
// anything other than letters, digits, dots, dashes and underscores
// replaced by underscores.
func IndexName(source string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(source)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "._")
	if name == "" {
		return "", fmt.Errorf("%w: source name %q yields an empty index name", domain.ErrInvalidInput, source)
	}
	return truncateRunes(name, maxIndexNameLength), nil
}

// Build embeds the non-blank chunks and appends them to the index for source.
// A source whose name maps onto another source's index is rejected with
// domain.ErrInvalidInput.
func (s *IndexService) Build(ctx context.Context, source string, chunks []domain.Chunk) (domain.IndexHandle, error) {
	logger.Section("Index Build")

	source = strings.TrimSpace(source)
	name, err := IndexName(source)
	if err != nil {
		return domain.IndexHandle{}, err
	}
	if s.embedder == nil {
		return domain.IndexHandle{}, fmt.Errorf("%w: no embedding service configured", domain.ErrModelUnavailable)
	}

	handle, err := s.store.EnsureIndex(ctx, domain.IndexHandle{
		Name:       name,
		Source:     source,
		Model:      s.embedder.ModelName(),
		Dimensions: s.embedder.Dimensions(),
	})
	if err != nil {
		return domain.IndexHandle{}, fmt.Errorf("open index %s: %w", name, err)
	}
	if handle.Source != source {
		return domain.IndexHandle{}, fmt.Errorf("%w: source %q maps to index %s, which holds %q",
			domain.ErrInvalidInput, source, name, handle.Source)
	}
	if handle.Model != s.embedder.ModelName() {
		logger.Warn("index %s was built with %s, appending with %s", name, handle.Model, s.embedder.ModelName())
	}

	kept := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		kept = append(kept, c)
	}
	logger.Debug("index %s: %d of %d chunks to embed", name, len(kept), len(chunks))
	if len(kept) == 0 {
		return s.store.GetIndex(ctx, name)
	}

	texts := make([]string, len(kept))
	for i, c := range kept {
		texts[i] = c.Content
	}

	stop := logger.Timed("embed chunks")
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	stop()
	if err != nil {
		return domain.IndexHandle{}, fmt.Errorf("%w: embed chunks: %w", domain.ErrModelUnavailable, err)
	}
	if len(vecs) != len(kept) {
		return domain.IndexHandle{}, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrModelUnavailable, len(vecs), len(kept))
	}

	for i := range kept {
		c := &kept[i]
		if len(vecs[i]) != handle.Dimensions {
			return domain.IndexHandle{}, fmt.Errorf("%w: embedding has %d dimensions, index %s has %d",
				domain.ErrModelUnavailable, len(vecs[i]), name, handle.Dimensions)
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.Source = source
		c.Embedding = vecs[i]
		if c.Metadata == nil {
			c.Metadata = make(map[string]any, 1)
		}
		c.Metadata[domain.MetadataSource] = source
	}

	if err := s.store.AppendChunks(ctx, name, kept); err != nil {
		return domain.IndexHandle{}, fmt.Errorf("store chunks: %w", err)
	}
	if err := s.addLoaded(ctx, name, kept); err != nil {
		return domain.IndexHandle{}, err
	}

	return s.store.GetIndex(ctx, name)
}

// Open returns the handle of a previously built index, looked up by source
// or by index name. An index built for a different source that maps to the
// same name is reported as not found.
func (s *IndexService) Open(ctx context.Context, source string) (domain.IndexHandle, error) {
	source = strings.TrimSpace(source)
	name, err := IndexName(source)
	if err != nil {
		return domain.IndexHandle{}, err
	}
	handle, err := s.store.GetIndex(ctx, name)
	if err != nil {
		return domain.IndexHandle{}, err
	}
	if handle.Source != source && handle.Name != source {
		return domain.IndexHandle{}, fmt.Errorf("%w: index %s holds %q, not %q",
			domain.ErrNotFound, name, handle.Source, source)
	}
	return handle, nil
}

// List returns every stored index.
func (s *IndexService) List(ctx context.Context) ([]domain.IndexHandle, error) {
	return s.store.ListIndexes(ctx)
}

// Search returns the k chunks most similar to query, best first.
// Ties keep insertion order. k <= 0 selects the configured default.
func (s *IndexService) Search(
	ctx context.Context, handle domain.IndexHandle, query string, k int,
) ([]domain.SearchHit, error) {
	logger.Section("Index Search")

	if strings.TrimSpace(query) == "" {
		logger.Debug("empty query, returning no results")
		return []domain.SearchHit{}, nil
	}
	if k <= 0 {
		k = s.topK
	}

	idx, err := s.load(ctx, handle.Name)
	if err != nil {
		return nil, err
	}
	if idx.vectors == nil || idx.vectors.Len() == 0 {
		logger.Debug("index %s is empty", handle.Name)
		return []domain.SearchHit{}, nil
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrModelUnavailable)
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrModelUnavailable, err)
	}

	vhits, err := idx.vectors.Search(ctx, qvec, k)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: search index %s: %w", domain.ErrModelUnavailable, handle.Name, err)
	}

	s.mu.Lock()
	hits := make([]domain.SearchHit, 0, len(vhits))
	for _, h := range vhits {
		if c, ok := idx.chunks[h.ChunkID]; ok {
			hits = append(hits, domain.SearchHit{Chunk: c, Score: h.Similarity})
		}
	}
	s.mu.Unlock()

	logger.Debug("index %s: %d hits for k=%d", handle.Name, len(hits), k)
	return hits, nil
}

// Close releases the loaded vector indexes. The store is owned by the caller.
func (s *IndexService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, idx := range s.loaded {
		if idx.vectors != nil {
			if err := idx.vectors.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(s.loaded, name)
	}
	return firstErr
}

// load returns the in-memory index for name, reading it from the store on first use.
func (s *IndexService) load(ctx context.Context, name string) (*loadedIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.loaded[name]; ok {
		return idx, nil
	}

	handle, err := s.store.GetIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	chunks, err := s.store.ListChunks(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", name, err)
	}

	idx := &loadedIndex{chunks: make(map[string]domain.Chunk, len(chunks))}
	if s.newIndex == nil {
		return nil, fmt.Errorf("%w: no vector index configured", domain.ErrConfiguration)
	}
	idx.vectors, err = s.newIndex(handle.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("create vector index: %w", err)
	}
	if err := addAll(ctx, idx, chunks); err != nil {
		_ = idx.vectors.Close()
		return nil, err
	}

	logger.Debug("loaded index %s: %d vectors", name, idx.vectors.Len())
	s.loaded[name] = idx
	return idx, nil
}

// addLoaded mirrors appended chunks into an already loaded index.
func (s *IndexService) addLoaded(ctx context.Context, name string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.loaded[name]
	if !ok {
		return nil
	}
	return addAll(ctx, idx, chunks)
}

func addAll(ctx context.Context, idx *loadedIndex, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if err := idx.vectors.Add(ctx, c.ID, c.Embedding); err != nil {
			return fmt.Errorf("%w: add vector %s: %w", domain.ErrModelUnavailable, c.ID, err)
		}
		idx.chunks[c.ID] = c
	}
	return nil
}
