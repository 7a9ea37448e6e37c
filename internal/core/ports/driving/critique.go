package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// Critique is one persona's analysis of an excerpt.
type Critique struct {
	Persona domain.Persona
	Text    string
}

// CritiqueService runs persona critique agents over paper excerpts.
type CritiqueService interface {
	// Critique asks one persona for a critical analysis of text.
	Critique(ctx context.Context, persona domain.Persona, text string, cfg domain.LLMConfig) (string, error)

	// CritiqueAll runs every persona in turn, stopping at the first failure.
	CritiqueAll(ctx context.Context, text string, cfg domain.LLMConfig) ([]Critique, error)
}
