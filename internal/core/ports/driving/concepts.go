package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// ConceptMap is a rendered concept graph.
type ConceptMap struct {
	Keyphrases []domain.Keyphrase
	Graph      *domain.ConceptGraph
	Path       string
}

// ConceptService extracts keyphrases and builds concept similarity graphs.
type ConceptService interface {
	// Extract returns up to topK keyphrases ranked by descending score.
	// topK <= 0 selects the configured default.
	Extract(ctx context.Context, text string, topK int) ([]domain.Keyphrase, error)

	// BuildGraph connects keyphrases whose embeddings have cosine
	// similarity above threshold.
	BuildGraph(ctx context.Context, keyphrases []domain.Keyphrase, threshold float64) (*domain.ConceptGraph, error)

	// Render writes the graph artifact and returns its path.
	Render(ctx context.Context, graph *domain.ConceptGraph) (string, error)

	// Map runs Extract, BuildGraph and Render with configured defaults.
	Map(ctx context.Context, text string) (*ConceptMap, error)
}
