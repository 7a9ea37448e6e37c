// Package openai provides an LLM service adapter for the OpenAI chat completions API.
// Any server speaking the same protocol (GPT4All, llama.cpp server, vLLM) can be
// targeted through BaseURL.
package openai

import (
	"context"
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
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-3.5-turbo"
	DefaultLLMTimeout = domain.DefaultLLMTimeout
)

// LLMConfig configures a chat completions client. APIKey is required only
// for the default endpoint. Name labels errors, e.g. "openai" or "gpt4all".
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Name    string
}

// LLMService generates text through /chat/completions.
type LLMService struct {
	api   *httpapi.Client
	model string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
		// Text is the legacy completions field some local servers still use.
		Text string `json:"text"`
	} `json:"choices"`
}

// NewLLMService creates a new OpenAI-compatible LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" && cfg.BaseURL == DefaultBaseURL {
		return nil, fmt.Errorf("%w: openai API key is required", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.Name == "" {
		cfg.Name = "openai"
	}

	return &LLMService{
		api:   httpapi.New(cfg.Name, cfg.BaseURL, cfg.Timeout, httpapi.WithBearer(cfg.APIKey)),
		model: cfg.Model,
	}, nil
}

// Generate sends the prompt as a single user message.
func (s *LLMService) Generate(
	ctx context.Context,
	prompt string,
	opts driven.GenerateOptions,
) (domain.GenerationResult, error) {
	temperature := opts.Temperature
	req := chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: &temperature,
		Stop:        opts.StopWords,
	}

	var resp chatResponse
	if err := s.api.Post(ctx, "/chat/completions", req, &resp); err != nil {
		return domain.GenerationResult{}, err
	}
	if len(resp.Choices) == 0 {
		return domain.GenerationResult{}, fmt.Errorf("%w: %s returned no choices", domain.ErrGeneration, s.api.Name())
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		text = resp.Choices[0].Text
	}
	return domain.GenerationResult{Text: strings.TrimSpace(text)}, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the endpoint by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx, "/models")
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	s.api.Close()
	return nil
}
