// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// LLMService produces text from a prompt.
// Every implementation normalises its wire response into a GenerationResult,
// so callers never inspect backend-specific shapes.
//
// Implementations include:
//   - OpenAI and Anthropic (hosted, API key)
//   - Ollama serving a GGUF model file
//   - GPT4All local API server
type LLMService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (domain.GenerationResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero means backend default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// LLMFactory resolves a request configuration into a ready LLMService.
// Implementations may cache handles; callers must not Close returned services.
type LLMFactory interface {
	// LLM returns the service for cfg. Missing local model files yield
	// domain.ErrFileNotFound and invalid configurations domain.ErrConfiguration.
	LLM(ctx context.Context, cfg domain.LLMConfig) (LLMService, error)
}
