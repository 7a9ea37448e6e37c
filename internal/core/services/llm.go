package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// generate resolves cfg to a backend and runs one completion under the
// configured timeout. Errors that carry no domain sentinel are reported
// as domain.ErrGeneration.
func generate(
	ctx context.Context, llms driven.LLMFactory, cfg domain.LLMConfig, prompt string,
) (string, error) {
	if llms == nil {
		return "", fmt.Errorf("%w: no LLM backend configured", domain.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	svc, err := llms.LLM(ctx, cfg)
	if err != nil {
		return "", asGenerationError(err)
	}

	timeout := cfg.ResolvedTimeout()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Debug("generate: backend=%s model=%s prompt=%d runes temperature=%.2f",
		cfg.ResolvedBackend(), svc.ModelName(), utf8.RuneCountInString(prompt), cfg.Temperature)
	defer logger.Timed("generate")()

	res, err := svc.Generate(callCtx, prompt, driven.GenerateOptions{Temperature: cfg.Temperature})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: backend timed out after %s", domain.ErrGeneration, timeout)
		}
		return "", asGenerationError(err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", fmt.Errorf("%w: backend returned no text", domain.ErrGeneration)
	}
	return res.Text, nil
}

func asGenerationError(err error) error {
	for _, sentinel := range []error{
		domain.ErrConfiguration,
		domain.ErrFileNotFound,
		domain.ErrModelUnavailable,
		domain.ErrGeneration,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrGeneration, err)
}

// loadPrompt returns the named template from store, or the built-in one.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		if tmpl, err := store.Load(name); err == nil && strings.TrimSpace(tmpl) != "" {
			return tmpl
		}
		logger.Debug("prompt %q: using built-in template", name)
	}
	return domain.DefaultPrompts[name]
}

// truncateRunes returns at most n runes of s. n <= 0 leaves s unchanged.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
