// Package gpt4all runs local model files through the GPT4All desktop API server.
//
// GPT4All exposes an OpenAI-compatible endpoint (default
// http://localhost:4891/v1) and addresses models by their file name, so the
// adapter is a thin configuration of the openai package.
package gpt4all

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultBaseURL is the GPT4All local server endpoint.
const DefaultBaseURL = "http://localhost:4891/v1"

// Config holds configuration for the GPT4All service.
type Config struct {
	// ModelPath is the on-disk model file (required).
	ModelPath string

	// BaseURL overrides the local server endpoint.
	BaseURL string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService generates text from a GPT4All-served model file.
type LLMService struct {
	*openai.LLMService
	path string
}

// NewLLMService checks that the model file exists and prepares the client.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: gpt4all needs a model path", domain.ErrConfiguration)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, cfg.ModelPath)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", domain.ErrModelUnavailable, cfg.ModelPath, err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	inner, err := openai.NewLLMService(openai.LLMConfig{
		BaseURL: cfg.BaseURL,
		Model:   filepath.Base(cfg.ModelPath),
		Timeout: cfg.Timeout,
		Name:    "gpt4all",
	})
	if err != nil {
		return nil, err
	}
	return &LLMService{LLMService: inner, path: cfg.ModelPath}, nil
}

// ModelPath returns the model file the service was created for.
func (s *LLMService) ModelPath() string {
	return s.path
}

