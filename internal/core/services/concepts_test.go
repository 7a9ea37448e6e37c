package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/keyphrase"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/render/html"
	"github.com/custodia-labs/argonaut/internal/core/domain"
)

const proteinAbstract = `Transformer models for protein folding have changed structural biology.
An attention mechanism lets the transformer relate distant residues in the sequence.
We train a transformer with attention mechanism layers on protein structure data.
Funding acknowledgements go to the national science foundation.`

func newTestConceptService(t *testing.T, opts ...ConceptOption) *ConceptService {
	t.Helper()
	emb := newTestEmbedder(t)
	return NewConceptService(keyphrase.New(emb), emb, html.New(t.TempDir()), opts...)
}

func TestConceptService_Extract(t *testing.T) {
	svc := newTestConceptService(t)

	kps, err := svc.Extract(context.Background(), proteinAbstract, 20)
	require.NoError(t, err)
	require.NotEmpty(t, kps)
	assert.LessOrEqual(t, len(kps), 20)
	for i := 1; i < len(kps); i++ {
		assert.GreaterOrEqual(t, kps[i-1].Score, kps[i].Score)
	}

	few, err := newTestConceptService(t, WithConceptTopK(3)).Extract(context.Background(), proteinAbstract, 0)
	require.NoError(t, err)
	assert.Len(t, few, 3)
}

func TestConceptService_BuildGraphProperties(t *testing.T) {
	ctx := context.Background()
	svc := newTestConceptService(t)

	kps, err := svc.Extract(ctx, proteinAbstract, 20)
	require.NoError(t, err)

	for _, threshold := range []float64{-0.5, 0, 0.3, 0.5, 0.9} {
		graph, err := svc.BuildGraph(ctx, kps, threshold)
		require.NoError(t, err)

		assert.Len(t, graph.Nodes, len(kps))
		for i, n := range graph.Nodes {
			assert.Equal(t, i, n.ID)
			assert.Equal(t, kps[i].Phrase, n.Phrase)
			assert.Equal(t, domain.NodeSize(kps[i].Score), n.Size)
		}
		for _, e := range graph.Edges {
			assert.Less(t, e.Source, e.Target)
			assert.Greater(t, e.Weight, threshold)
			assert.LessOrEqual(t, e.Weight, 1.0)
		}
	}
}

func TestConceptService_BuildGraphDeterministic(t *testing.T) {
	ctx := context.Background()
	svc := newTestConceptService(t)
	kps, err := svc.Extract(ctx, proteinAbstract, 20)
	require.NoError(t, err)

	first, err := svc.BuildGraph(ctx, kps, 0.5)
	require.NoError(t, err)
	second, err := svc.BuildGraph(ctx, kps, 0.5)
	require.NoError(t, err)

	assert.Equal(t, first.Nodes, second.Nodes)
	require.Len(t, second.Edges, len(first.Edges))
	for i := range first.Edges {
		assert.Equal(t, first.Edges[i].Source, second.Edges[i].Source)
		assert.Equal(t, first.Edges[i].Target, second.Edges[i].Target)
		assert.InDelta(t, first.Edges[i].Weight, second.Edges[i].Weight, 1e-9)
	}
}

func TestConceptService_BuildGraphConnectsRelatedPhrases(t *testing.T) {
	svc := newTestConceptService(t)
	kps := []domain.Keyphrase{
		{Phrase: "graph neural network", Score: 0.8},
		{Phrase: "graph neural", Score: 0.7},
		{Phrase: "funding acknowledgements", Score: 0.1},
		{Phrase: "graph neural", Score: 0.2},
	}

	graph, err := svc.BuildGraph(context.Background(), kps, 0.5)
	require.NoError(t, err)

	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, 80, graph.Nodes[0].Size)
	assert.InDelta(t, 0.7, graph.Nodes[1].Score, 1e-9)
	assert.True(t, graph.HasEdge(0, 1))
	assert.False(t, graph.HasEdge(0, 2))
	assert.False(t, graph.HasEdge(1, 2))
	assert.InDelta(t, 0.5, graph.Threshold, 1e-9)
}

func TestConceptService_BuildGraphEdgeCases(t *testing.T) {
	svc := newTestConceptService(t)
	ctx := context.Background()

	graph, err := svc.BuildGraph(ctx, nil, 0.5)
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)

	graph, err = svc.BuildGraph(ctx, []domain.Keyphrase{{Phrase: "solo", Score: 0.4}}, 0.5)
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)

	for _, bad := range []float64{1, 1.5, -1.01} {
		_, err = svc.BuildGraph(ctx, nil, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "threshold %v", bad)
	}
}

func TestConceptService_Map(t *testing.T) {
	svc := newTestConceptService(t, WithConceptTopK(8), WithThreshold(0.2))

	m, err := svc.Map(context.Background(), proteinAbstract)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(m.Keyphrases), 8)
	assert.Len(t, m.Graph.Nodes, len(m.Keyphrases))
	assert.InDelta(t, 0.2, m.Graph.Threshold, 1e-9)

	info, err := os.Stat(m.Path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestConceptService_MissingCollaborators(t *testing.T) {
	svc := NewConceptService(nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Extract(ctx, "text", 5)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = svc.Render(ctx, &domain.ConceptGraph{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = svc.BuildGraph(ctx, []domain.Keyphrase{{Phrase: "a"}, {Phrase: "b"}}, 0.5)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}
