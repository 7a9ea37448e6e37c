package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// Answer is a generated answer with the chunks it was grounded on.
type Answer struct {
	Text    string
	Sources []domain.SearchHit
}

// AnswerService answers questions against an embedding index.
type AnswerService interface {
	// Answer retrieves context for question and returns the generated answer.
	Answer(ctx context.Context, handle domain.IndexHandle, question string, cfg domain.LLMConfig) (string, error)

	// AnswerWithSources is Answer that also returns the retrieved chunks.
	AnswerWithSources(
		ctx context.Context, handle domain.IndexHandle, question string, cfg domain.LLMConfig,
	) (*Answer, error)
}
