package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// HypothesisService suggests research hypotheses for a text.
type HypothesisService interface {
	// Generate returns a tagged result; it never returns a Go error.
	Generate(ctx context.Context, text string, cfg domain.LLMConfig, n int) domain.HypothesisResult

	// Suggest flattens Generate into a display string, which holds either
	// the suggestions or a short diagnostic.
	Suggest(ctx context.Context, text string, cfg domain.LLMConfig, n int) string
}
