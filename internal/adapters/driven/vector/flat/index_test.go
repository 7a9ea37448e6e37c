package flat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

func TestNew_InvalidDimension(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}

func TestIndex_SearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, "east", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "north", []float32{0, 1}))
	require.NoError(t, idx.Add(ctx, "northeast", []float32{1, 1}))

	hits, err := idx.Search(ctx, []float32{2, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "east", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, "northeast", hits[1].ChunkID)
}

func TestIndex_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, idx.Add(ctx, id, []float32{1, 1}))
	}

	for i := 0; i < 5; i++ {
		hits, err := idx.Search(ctx, []float32{1, 1}, 3)
		require.NoError(t, err)
		assert.Equal(t, "a", hits[0].ChunkID)
		assert.Equal(t, "b", hits[1].ChunkID)
		assert.Equal(t, "c", hits[2].ChunkID)
	}
}

func TestIndex_AddReplacesAndDelete(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, "a", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "b", []float32{0, 1}))
	require.NoError(t, idx.Add(ctx, "a", []float32{0, 1}))
	assert.Equal(t, 2, idx.Len())

	require.NoError(t, idx.Delete(ctx, "a"))
	require.NoError(t, idx.Delete(ctx, "missing"))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ChunkID)
}

func TestIndex_EmptyAndZeroK(t *testing.T) {
	ctx := context.Background()
	idx, err := New(3)
	require.NoError(t, err)

	hits, err := idx.Search(ctx, []float32{1, 2, 3}, 4)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.Add(ctx, "a", []float32{1, 2, 3}))
	hits, err = idx.Search(ctx, []float32{1, 2, 3}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, err := New(3)
	require.NoError(t, err)

	assert.Error(t, idx.Add(ctx, "a", []float32{1, 2}))
	_, err = idx.Search(ctx, []float32{1}, 1)
	assert.Error(t, err)
}

func TestIndex_DoesNotAliasInput(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	v := []float32{1, 0}
	require.NoError(t, idx.Add(ctx, "a", v))
	v[0], v[1] = 0, 1

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestIndex_Closed(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	assert.ErrorIs(t, idx.Add(ctx, "a", []float32{1, 0}), ErrClosed)
	_, err = idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, idx.Delete(ctx, "a"), ErrClosed)
}

func TestNewVectorIndex(t *testing.T) {
	var factory driven.VectorIndexFactory = NewVectorIndex

	idx, err := factory(3)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())

	idx, err = factory(0)
	assert.Error(t, err)
	assert.Nil(t, idx)
}
