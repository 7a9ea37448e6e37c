// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	ollamaembed "github.com/custodia-labs/argonaut/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/argonaut/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/embedding/hashing"
	anthropicllm "github.com/custodia-labs/argonaut/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/llm/gpt4all"
	ollamallm "github.com/custodia-labs/argonaut/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/argonaut/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service named by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrConfiguration)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrConfiguration, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(domain.EmbeddingDimensions()[settings.Model])

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not offer embeddings, use ollama, openai or hashing",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService builds an uncached LLM service for cfg.
// Local model files are checked before any backend is contacted.
func CreateLLMService(ctx context.Context, cfg domain.LLMConfig) (driven.LLMService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.ResolvedTimeout()
	backend := cfg.ResolvedBackend()

	if backend.IsLocal() {
		if _, err := os.Stat(cfg.LocalModelPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: local model not found: %s", domain.ErrFileNotFound, cfg.LocalModelPath)
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
		}
	}

	logger.Debug("creating LLM service: backend=%s path=%q", backend, cfg.LocalModelPath)

	switch backend {
	case domain.BackendHosted:
		return createHostedLLM(cfg, timeout)

	case domain.BackendLlama:
		name, err := ollamallm.ImportModel(ctx, cfg.BaseURL, cfg.LocalModelPath)
		if err != nil {
			return nil, err
		}
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.BaseURL,
			Model:   name,
			Timeout: timeout,
		}), nil

	case domain.BackendGPTJ, domain.BackendAuto:
		return gpt4all.NewLLMService(gpt4all.Config{
			ModelPath: cfg.LocalModelPath,
			BaseURL:   cfg.BaseURL,
			Timeout:   timeout,
		})

	default:
		return nil, fmt.Errorf("%w: backend %q", domain.ErrConfiguration, backend)
	}
}

func createHostedLLM(cfg domain.LLMConfig, timeout time.Duration) (driven.LLMService, error) {
	switch cfg.ResolvedProvider() {
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cfg.RemoteAPIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  cfg.RemoteAPIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
	default:
		return nil, fmt.Errorf("%w: hosted provider %q", domain.ErrConfiguration, cfg.HostedProvider)
	}
}

// ValidateEmbeddingConfig creates an embedding service and pings it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig creates an LLM service and pings it.
func ValidateLLMConfig(ctx context.Context, cfg domain.LLMConfig) error {
	svc, err := CreateLLMService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
