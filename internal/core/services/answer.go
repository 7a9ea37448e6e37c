package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// contextSeparator joins retrieved chunks in the prompt.
const contextSeparator = "\n\n"

// AnswerService answers questions from retrieved index context.
type AnswerService struct {
	index        driving.IndexService
	llms         driven.LLMFactory
	prompts      driven.PromptStore
	log          driven.InteractionLog
	topK         int
	contextChars int
}

// AnswerOption configures an AnswerService.
type AnswerOption func(*AnswerService)

// WithAnswerTopK sets the number of chunks retrieved per question.
func WithAnswerTopK(k int) AnswerOption {
	return func(s *AnswerService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithContextChars bounds the context handed to the model, in runes.
func WithContextChars(n int) AnswerOption {
	return func(s *AnswerService) {
		if n > 0 {
			s.contextChars = n
		}
	}
}

// WithInteractionLog records every answered question.
func WithInteractionLog(log driven.InteractionLog) AnswerOption {
	return func(s *AnswerService) {
		s.log = log
	}
}

// NewAnswerService creates an answer service.
func NewAnswerService(index driving.IndexService, llms driven.LLMFactory, opts ...AnswerOption) *AnswerService {
	s := &AnswerService{
		index:        index,
		llms:         llms,
		topK:         domain.DefaultRetrievalTopK,
		contextChars: domain.DefaultContextChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPromptStore sets the store the question-answer template is loaded from.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Answer retrieves context for question and returns the generated answer.
func (s *AnswerService) Answer(
	ctx context.Context, handle domain.IndexHandle, question string, cfg domain.LLMConfig,
) (string, error) {
	ans, err := s.AnswerWithSources(ctx, handle, question, cfg)
	if err != nil {
		return "", err
	}
	return ans.Text, nil
}

// AnswerWithSources retrieves context, generates an answer and reports the
// chunks it was grounded on.
func (s *AnswerService) AnswerWithSources(
	ctx context.Context, handle domain.IndexHandle, question string, cfg domain.LLMConfig,
) (*driving.Answer, error) {
	logger.Section("Answer")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hits, err := s.index.Search(ctx, handle, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = h.Chunk.Content
	}
	contextText := truncateRunes(strings.Join(parts, contextSeparator), s.contextChars)
	logger.Debug("answer: %d chunks retrieved from %s", len(hits), handle.Name)

	prompt := domain.FillPrompt(loadPrompt(s.prompts, driven.PromptQuestionAnswer), map[string]string{
		"context":  contextText,
		"question": question,
	})

	text, err := generate(ctx, s.llms, cfg, prompt)
	if err != nil {
		return nil, err
	}

	s.record(ctx, question, text, handle.Source)
	return &driving.Answer{Text: text, Sources: hits}, nil
}

// record appends to the interaction log. Failures do not fail the answer.
func (s *AnswerService) record(ctx context.Context, question, answer, source string) {
	if s.log == nil {
		return
	}
	if err := s.log.Append(ctx, domain.NewInteractionRecord(question, answer, source)); err != nil {
		logger.Warn("record interaction: %v", err)
	}
}
