package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// brokenEmbedder fails every batch.
type brokenEmbedder struct {
	*hashing.EmbeddingService
}

func (brokenEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("model weights missing")
}

func TestIndexName(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{source: "paper.pdf", expected: "paper.pdf"},
		{source: "My Paper (v2).PDF", expected: "my_paper__v2_.pdf"},
		{source: "arxiv_search", expected: "arxiv_search"},
		{source: "../../etc/passwd", expected: "etc_passwd"},
	}

	for _, tc := range tests {
		t.Run(tc.source, func(t *testing.T) {
			name, err := IndexName(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, name)
		})
	}

	_, err := IndexName("  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = IndexName("...")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexService_BuildSkipsBlankChunks(t *testing.T) {
	ctx := context.Background()
	svc := newTestIndexService(t)

	handle, err := svc.Build(ctx, "paper.pdf", textChunks("first line", "   ", "", "second line"))
	require.NoError(t, err)

	assert.Equal(t, "paper.pdf", handle.Name)
	assert.Equal(t, "paper.pdf", handle.Source)
	assert.Equal(t, hashing.DefaultModel, handle.Model)
	assert.Equal(t, 2, handle.Chunks)
}

func TestIndexService_BuildAppends(t *testing.T) {
	ctx := context.Background()
	svc := newTestIndexService(t)

	_, err := svc.Build(ctx, "notes", textChunks("alpha beta"))
	require.NoError(t, err)

	// A search loads the index before the second build.
	hits, err := svc.Search(ctx, domain.IndexHandle{Name: "notes"}, "gamma delta", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	handle, err := svc.Build(ctx, "notes", textChunks("gamma delta"))
	require.NoError(t, err)
	assert.Equal(t, 2, handle.Chunks)

	hits, err = svc.Search(ctx, handle, "gamma delta", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "gamma delta", hits[0].Chunk.Content)
}

func TestIndexService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestIndexService(t)

	lines := []string{
		"Transformers dominate sequence modelling.",
		"We use a graph neural network with attention pooling.",
		"Results improve on three benchmarks.",
	}
	handle, err := svc.Build(ctx, "paper.pdf", textChunks(lines...))
	require.NoError(t, err)

	for _, line := range lines {
		hits, err := svc.Search(ctx, handle, line, 3)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, line, hits[0].Chunk.Content)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
		assert.Equal(t, "paper.pdf", hits[0].Chunk.Source)
		assert.Equal(t, "paper.pdf", hits[0].Chunk.Metadata[domain.MetadataSource])
	}
}

func TestIndexService_SearchOrdersBestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestIndexService(t)

	handle, err := svc.Build(ctx, "s", textChunks("protein folding", "protein structure folding models", "funding"))
	require.NoError(t, err)

	hits, err := svc.Search(ctx, handle, "protein folding", 0)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestIndexService_SearchDefaultTopK(t *testing.T) {
	ctx := context.Background()
	svc := newTestIndexService(t, WithDefaultTopK(2))

	handle, err := svc.Build(ctx, "s", textChunks("a1 b", "a2 b", "a3 b", "a4 b"))
	require.NoError(t, err)

	hits, err := svc.Search(ctx, handle, "b", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndexService_EmptyResults(t *testing.T) {
	ctx := context.Background()
	svc := newTestIndexService(t)

	handle, err := svc.Build(ctx, "empty", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, handle.Chunks)

	hits, err := svc.Search(ctx, handle, "anything", 4)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)

	filled, err := svc.Build(ctx, "filled", textChunks("some text"))
	require.NoError(t, err)
	hits, err = svc.Search(ctx, filled, "   ", 4)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexService_OpenAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	svc := NewIndexService(store, newTestEmbedder(t), flat.NewVectorIndex)

	_, err := svc.Build(ctx, "B.pdf", textChunks("b"))
	require.NoError(t, err)
	_, err = svc.Build(ctx, "a.pdf", textChunks("a"))
	require.NoError(t, err)

	// A second service over the same store reopens the persisted index.
	reopened := NewIndexService(store, newTestEmbedder(t), flat.NewVectorIndex)
	handle, err := reopened.Open(ctx, "B.pdf")
	require.NoError(t, err)
	assert.Equal(t, "b.pdf", handle.Name)
	assert.Equal(t, 1, handle.Chunks)

	hits, err := reopened.Search(ctx, handle, "b", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].Chunk.Content)

	_, err = reopened.Open(ctx, "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a.pdf", all[0].Name)
	assert.Equal(t, "b.pdf", all[1].Name)

	require.NoError(t, svc.Close())
	require.NoError(t, reopened.Close())
}

func TestIndexService_SourcesSharingANameStayApart(t *testing.T) {
	ctx := context.Background()
	svc := newTestIndexService(t)

	first, err := svc.Build(ctx, "Paper A.pdf", textChunks("alpha particles scatter off gold foil"))
	require.NoError(t, err)
	assert.Equal(t, "paper_a.pdf", first.Name)

	_, err = svc.Build(ctx, "paper_a.pdf", textChunks("bananas ripen faster in paper bags"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Paper A.pdf")

	handle, err := svc.Open(ctx, "Paper A.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, handle.Chunks)

	byName, err := svc.Open(ctx, "paper_a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Paper A.pdf", byName.Source)

	_, err = svc.Open(ctx, "PAPER A.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hits, err := svc.Search(ctx, handle, "bananas ripen faster in paper bags", 5)
	require.NoError(t, err)
	for _, hit := range hits {
		assert.NotContains(t, hit.Chunk.Content, "bananas")
	}
}

func TestIndexService_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()

	_, err := NewIndexService(store, newTestEmbedder(t), flat.NewVectorIndex).
		Build(ctx, "paper", textChunks("text"))
	require.NoError(t, err)

	small, err := hashing.NewEmbeddingService(16)
	require.NoError(t, err)
	_, err = NewIndexService(store, small, flat.NewVectorIndex).Build(ctx, "paper", textChunks("more"))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestIndexService_EmbeddingFailure(t *testing.T) {
	svc := NewIndexService(memory.NewIndexStore(), brokenEmbedder{newTestEmbedder(t)}, flat.NewVectorIndex)

	_, err := svc.Build(context.Background(), "paper", textChunks("text"))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	assert.Contains(t, err.Error(), "model weights missing")
}

func TestIndexService_NoEmbedder(t *testing.T) {
	svc := NewIndexService(memory.NewIndexStore(), nil, flat.NewVectorIndex)

	_, err := svc.Build(context.Background(), "paper", textChunks("text"))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}
