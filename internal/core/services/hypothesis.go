package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure HypothesisService implements the interfaces.
var (
	_ driving.HypothesisService = (*HypothesisService)(nil)
	_ driven.PromptStoreAware   = (*HypothesisService)(nil)
)

// Diagnostics reported by Suggest.
const (
	msgNoLLMSource      = "No LLM source provided (OpenAI key or local model path)."
	msgModelNotFound    = "Local model not found: "
	msgGenerationFailed = "Error generating hypotheses: "
)

// HypothesisService suggests research directions for a text excerpt.
type HypothesisService struct {
	llms        driven.LLMFactory
	prompts     driven.PromptStore
	count       int
	temperature float64
	prefixChars int
}

// HypothesisOption configures a HypothesisService.
type HypothesisOption func(*HypothesisService)

// WithHypothesisCount sets the number of suggestions used when n <= 0.
func WithHypothesisCount(n int) HypothesisOption {
	return func(s *HypothesisService) {
		if n > 0 {
			s.count = n
		}
	}
}

// WithHypothesisTemperature sets the sampling temperature.
func WithHypothesisTemperature(t float64) HypothesisOption {
	return func(s *HypothesisService) {
		s.temperature = t
	}
}

// WithPrefixChars bounds the excerpt sent to the model, in runes.
func WithPrefixChars(n int) HypothesisOption {
	return func(s *HypothesisService) {
		if n > 0 {
			s.prefixChars = n
		}
	}
}

// NewHypothesisService creates a hypothesis service.
func NewHypothesisService(llms driven.LLMFactory, opts ...HypothesisOption) *HypothesisService {
	s := &HypothesisService{
		llms:        llms,
		count:       domain.DefaultHypothesisCount,
		temperature: domain.DefaultHypothesisTemp,
		prefixChars: domain.DefaultHypothesisPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPromptStore sets the store the hypotheses template is loaded from.
func (s *HypothesisService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Generate asks the model for n dash-prefixed suggestions over a prefix of
// text. Failures are returned as a tagged result, never as an error.
func (s *HypothesisService) Generate(
	ctx context.Context, text string, cfg domain.LLMConfig, n int,
) domain.HypothesisResult {
	logger.Section("Hypotheses")

	if n <= 0 {
		n = s.count
	}
	cfg = cfg.WithDefaultTemperature(s.temperature)

	prompt := domain.FillPrompt(loadPrompt(s.prompts, driven.PromptHypotheses), map[string]string{
		"n":    strconv.Itoa(n),
		"text": truncateRunes(text, s.prefixChars),
	})

	out, err := generate(ctx, s.llms, cfg, prompt)
	if err != nil {
		logger.Debug("hypotheses failed: %v", err)
		return domain.HypothesisErr(domain.KindOf(err), diagnostic(err, cfg))
	}
	return domain.HypothesisOK(out)
}

// Suggest flattens Generate into a single display string.
func (s *HypothesisService) Suggest(ctx context.Context, text string, cfg domain.LLMConfig, n int) string {
	return s.Generate(ctx, text, cfg, n).Display()
}

func diagnostic(err error, cfg domain.LLMConfig) string {
	noKey := strings.TrimSpace(cfg.RemoteAPIKey) == ""
	noPath := strings.TrimSpace(cfg.LocalModelPath) == ""
	switch {
	case errors.Is(err, domain.ErrConfiguration) && noKey && noPath:
		return msgNoLLMSource
	case errors.Is(err, domain.ErrFileNotFound):
		return msgModelNotFound + cfg.LocalModelPath
	default:
		return msgGenerationFailed + err.Error()
	}
}

// ParseHypotheses extracts dash-prefixed suggestions from generated text.
// Lines that do not start with a dash continue the previous suggestion.
func ParseHypotheses(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "-"); ok {
			if rest = strings.TrimSpace(rest); rest != "" {
				out = append(out, rest)
			}
			continue
		}
		if len(out) > 0 {
			out[len(out)-1] += " " + line
		}
	}
	return out
}
