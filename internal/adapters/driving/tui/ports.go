// Package tui provides an interactive terminal user interface for argonaut.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index lists and opens embedding indexes.
	Index driving.IndexService

	// Answer answers questions against an index.
	Answer driving.AnswerService

	// Interactions reads the question and answer log.
	Interactions driving.InteractionService

	// Settings manages application settings.
	Settings driving.SettingsService

	// LLMConfig resolves the model configuration per question. When nil the
	// configuration is read from Settings.
	LLMConfig func() (domain.LLMConfig, error)
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(index driving.IndexService, answer driving.AnswerService) *Ports {
	return &Ports{
		Index:  index,
		Answer: answer,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Index == nil {
		return ErrMissingIndexService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}

// llmConfig returns the configuration resolver the ask view uses.
func (p *Ports) llmConfig() func() (domain.LLMConfig, error) {
	if p.LLMConfig != nil {
		return p.LLMConfig
	}
	settings := p.Settings
	return func() (domain.LLMConfig, error) {
		if settings == nil {
			return domain.LLMConfig{}, nil
		}
		s, err := settings.Get()
		if err != nil {
			return domain.LLMConfig{}, err
		}
		return s.LLM.Config(), nil
	}
}
