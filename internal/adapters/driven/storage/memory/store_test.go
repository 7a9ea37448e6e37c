package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

func TestIndexStore_AppendAndList(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()

	h, err := store.EnsureIndex(ctx, domain.IndexHandle{Name: "paper", Source: "paper.txt", Dimensions: 2})
	require.NoError(t, err)
	assert.False(t, h.CreatedAt.IsZero())

	require.NoError(t, store.AppendChunks(ctx, "paper", []domain.Chunk{
		{ID: "a", Content: "alpha", Embedding: []float32{1, 0}},
		{ID: "b", Content: "beta", Embedding: []float32{0, 1}},
	}))
	require.NoError(t, store.AppendChunks(ctx, "paper", []domain.Chunk{
		{ID: "c", Content: "gamma", Embedding: []float32{1, 1}},
	}))

	chunks, err := store.ListChunks(ctx, "paper")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, []string{chunks[0].Content, chunks[1].Content, chunks[2].Content})

	got, err := store.GetIndex(ctx, "paper")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Chunks)
}

func TestIndexStore_ListChunks_ReturnsCopies(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()

	_, err := store.EnsureIndex(ctx, domain.IndexHandle{Name: "paper", Dimensions: 2})
	require.NoError(t, err)
	require.NoError(t, store.AppendChunks(ctx, "paper", []domain.Chunk{{ID: "a", Embedding: []float32{1, 0}}}))

	chunks, _ := store.ListChunks(ctx, "paper")
	chunks[0].Embedding[0] = 42

	again, _ := store.GetChunk(ctx, "paper", "a")
	assert.Equal(t, float32(1), again.Embedding[0])
}

func TestIndexStore_Errors(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()

	_, err := store.EnsureIndex(ctx, domain.IndexHandle{Name: "", Dimensions: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.EnsureIndex(ctx, domain.IndexHandle{Name: "paper", Dimensions: 2})
	require.NoError(t, err)
	_, err = store.EnsureIndex(ctx, domain.IndexHandle{Name: "paper", Dimensions: 3})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	err = store.AppendChunks(ctx, "missing", []domain.Chunk{{ID: "a", Embedding: []float32{1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.AppendChunks(ctx, "paper", []domain.Chunk{{ID: "a"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.GetIndex(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetChunk(ctx, "paper", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexStore_ListIndexes_SortedByName(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := store.EnsureIndex(ctx, domain.IndexHandle{Name: name, Dimensions: 2})
		require.NoError(t, err)
	}

	handles, err := store.ListIndexes(ctx)
	require.NoError(t, err)
	require.Len(t, handles, 3)
	assert.Equal(t, "alpha", handles[0].Name)
	assert.Equal(t, "mid", handles[1].Name)
	assert.Equal(t, "zeta", handles[2].Name)
}

func TestInteractionLog_AppendOrder(t *testing.T) {
	log := NewInteractionLog()
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.NewInteractionRecord("q1", "a1", "")))
	require.NoError(t, log.Append(ctx, domain.NewInteractionRecord("q2", "a2", "ctx")))

	records, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "q1", records[0].Question)
	assert.Nil(t, records[0].Context)
	assert.Equal(t, "ctx", records[1].ContextOrEmpty())
	assert.NoError(t, log.Close())
}

func TestInteractionLog_ConcurrentAppend(t *testing.T) {
	log := NewInteractionLog()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = log.Append(ctx, domain.NewInteractionRecord("q", "a", ""))
		}()
	}
	wg.Wait()

	records, _ := log.List(ctx)
	assert.Len(t, records, 20)
}
