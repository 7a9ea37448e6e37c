package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// AIConfigValidator checks AI provider settings against the live provider.
type AIConfigValidator interface {
	// ValidateEmbedding creates the embedding service and pings it.
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error

	// ValidateLLM creates the LLM service for cfg and pings it.
	ValidateLLM(ctx context.Context, cfg domain.LLMConfig) error
}
