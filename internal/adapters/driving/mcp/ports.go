package mcp

import (
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index searches and lists embedding indexes.
	Index driving.IndexService

	// Answer answers questions against an index.
	Answer driving.AnswerService

	// Hypotheses suggests research directions.
	Hypotheses driving.HypothesisService

	// Concepts builds concept graphs.
	Concepts driving.ConceptService

	// Interactions exposes the interaction log.
	Interactions driving.InteractionService

	// Literature searches arXiv.
	Literature driving.LiteratureService

	// Settings supplies configured defaults.
	Settings driving.SettingsService

	// LLMConfig resolves the language model for each request.
	LLMConfig func() (domain.LLMConfig, error)
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	// The remaining ports are optional; their tools report errToolUnavailable.
	return nil
}

func (p *Ports) llmConfig() (domain.LLMConfig, error) {
	if p.LLMConfig == nil {
		if p.Settings == nil {
			return domain.LLMConfig{}, nil
		}
		settings, err := p.Settings.Get()
		if err != nil {
			return domain.LLMConfig{}, err
		}
		return settings.LLM.Config(), nil
	}
	return p.LLMConfig()
}

func (p *Ports) conceptThreshold() float64 {
	if p.Settings != nil {
		if settings, err := p.Settings.Get(); err == nil {
			return settings.Concepts.Threshold
		}
	}
	return domain.DefaultSimilarityThreshold
}
