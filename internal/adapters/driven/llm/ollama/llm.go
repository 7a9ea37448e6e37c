// Package ollama provides an LLM service adapter using Ollama.
//
// Ollama serves the llama.cpp model family. A local GGUF file is registered
// once as an Ollama model (see ImportModel) and then used by name.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = domain.DefaultLLMTimeout
)

// LLMConfig configures the Ollama client. Zero fields take the defaults.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService generates text through Ollama /api/generate.
type LLMService struct {
	api   *httpapi.Client
	model string
}

type generateOptions struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		api:   httpapi.New("ollama", cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
	}
}

// Generate produces a single non-streamed completion for the prompt.
func (s *LLMService) Generate(
	ctx context.Context,
	prompt string,
	opts driven.GenerateOptions,
) (domain.GenerationResult, error) {
	req := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Options: &generateOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		},
	}

	var resp generateResponse
	if err := s.api.Post(ctx, "/api/generate", req, &resp); err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			return domain.GenerationResult{}, fmt.Errorf("ollama model %q: %w", s.model, err)
		}
		return domain.GenerationResult{}, err
	}
	return domain.GenerationResult{Text: strings.TrimSpace(resp.Response)}, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the server is reachable through /api/tags.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx, "/api/tags")
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	s.api.Close()
	return nil
}
