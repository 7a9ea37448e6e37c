package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// KeyphraseExtractor derives ranked keyphrases from text.
type KeyphraseExtractor interface {
	// Extract returns at most topK keyphrases of 1 to 3 tokens,
	// ranked by descending score.
	Extract(ctx context.Context, text string, topK int) ([]domain.Keyphrase, error)
}

// GraphRenderer writes a concept graph as a self-contained artifact.
type GraphRenderer interface {
	// Render writes one new uniquely named file and returns its path.
	// Previously written artifacts are never modified.
	Render(ctx context.Context, graph *domain.ConceptGraph) (string, error)
}
