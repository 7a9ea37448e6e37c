package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure CritiqueService implements the interfaces.
var (
	_ driving.CritiqueService = (*CritiqueService)(nil)
	_ driven.PromptStoreAware = (*CritiqueService)(nil)
)

// CritiqueService asks persona agents for critical readings of an excerpt.
type CritiqueService struct {
	llms        driven.LLMFactory
	prompts     driven.PromptStore
	excerpt     int
	temperature float64
}

// NewCritiqueService creates a critique service.
func NewCritiqueService(llms driven.LLMFactory) *CritiqueService {
	return &CritiqueService{
		llms:        llms,
		excerpt:     domain.DefaultCritiqueExcerpt,
		temperature: domain.DefaultCritiqueTemperature,
	}
}

// SetPromptStore sets the store the critique template is loaded from.
func (s *CritiqueService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Critique asks one persona for a critical analysis of text.
func (s *CritiqueService) Critique(
	ctx context.Context, persona domain.Persona, text string, cfg domain.LLMConfig,
) (string, error) {
	if !persona.IsValid() {
		return "", fmt.Errorf("%w: unknown persona %q", domain.ErrInvalidInput, persona)
	}
	logger.Debug("critique as %s", persona)

	prompt := domain.FillPrompt(loadPrompt(s.prompts, driven.PromptCritique), map[string]string{
		"persona": persona.Title(),
		"text":    truncateRunes(text, s.excerpt),
	})
	return generate(ctx, s.llms, cfg.WithDefaultTemperature(s.temperature), prompt)
}

// CritiqueAll runs every persona in order and stops at the first failure.
func (s *CritiqueService) CritiqueAll(
	ctx context.Context, text string, cfg domain.LLMConfig,
) ([]driving.Critique, error) {
	logger.Section("Critique")

	personas := domain.AllPersonas()
	out := make([]driving.Critique, 0, len(personas))
	for _, p := range personas {
		txt, err := s.Critique(ctx, p, text, cfg)
		if err != nil {
			return out, fmt.Errorf("critique as %s: %w", p, err)
		}
		out = append(out, driving.Critique{Persona: p, Text: txt})
	}
	return out, nil
}
