package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set stores one setting by its dotted key, validating the value.
	Set(key, value string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the hosted LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLocalModel configures an on-disk model and optional backend family.
	SetLocalModel(path string, backend domain.Backend) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys returns the settable keys in display order.
	Keys() []string

	// Values returns the effective value of every settable key.
	Values() (map[string]string, error)

	// IsSecret reports whether the key holds a credential.
	IsSecret(key string) bool

	// ValidateEmbeddingConfig checks the embedding provider is reachable.
	ValidateEmbeddingConfig(ctx context.Context) error

	// ValidateLLMConfig checks the configured LLM source is usable.
	ValidateLLMConfig(ctx context.Context) error
}
