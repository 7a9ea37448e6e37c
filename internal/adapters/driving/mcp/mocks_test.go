package mcp

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	handles []domain.IndexHandle
	hits    []domain.SearchHit
	err     error
	lastK   int
}

func (m *mockIndexService) Build(_ context.Context, source string, _ []domain.Chunk) (domain.IndexHandle, error) {
	return domain.IndexHandle{Name: source, Source: source}, m.err
}

func (m *mockIndexService) Open(_ context.Context, source string) (domain.IndexHandle, error) {
	if m.err != nil {
		return domain.IndexHandle{}, m.err
	}
	for _, h := range m.handles {
		if h.Source == source {
			return h, nil
		}
	}
	return domain.IndexHandle{}, fmt.Errorf("%w: index %q", domain.ErrNotFound, source)
}

func (m *mockIndexService) Search(
	_ context.Context, _ domain.IndexHandle, _ string, k int,
) ([]domain.SearchHit, error) {
	m.lastK = k
	return m.hits, m.err
}

func (m *mockIndexService) List(_ context.Context) ([]domain.IndexHandle, error) {
	return m.handles, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer  *driving.Answer
	err     error
	lastCfg domain.LLMConfig
}

func (m *mockAnswerService) Answer(
	ctx context.Context, handle domain.IndexHandle, question string, cfg domain.LLMConfig,
) (string, error) {
	a, err := m.AnswerWithSources(ctx, handle, question, cfg)
	if err != nil {
		return "", err
	}
	return a.Text, nil
}

func (m *mockAnswerService) AnswerWithSources(
	_ context.Context, _ domain.IndexHandle, _ string, cfg domain.LLMConfig,
) (*driving.Answer, error) {
	m.lastCfg = cfg
	return m.answer, m.err
}

// mockHypothesisService is a mock implementation of driving.HypothesisService.
type mockHypothesisService struct {
	result domain.HypothesisResult
	lastN  int
}

func (m *mockHypothesisService) Generate(
	_ context.Context, _ string, _ domain.LLMConfig, n int,
) domain.HypothesisResult {
	m.lastN = n
	return m.result
}

func (m *mockHypothesisService) Suggest(ctx context.Context, text string, cfg domain.LLMConfig, n int) string {
	return m.Generate(ctx, text, cfg, n).Display()
}

// mockConceptService is a mock implementation of driving.ConceptService.
type mockConceptService struct {
	keyphrases    []domain.Keyphrase
	graph         *domain.ConceptGraph
	err           error
	lastThreshold float64
}

func (m *mockConceptService) Extract(_ context.Context, _ string, _ int) ([]domain.Keyphrase, error) {
	return m.keyphrases, m.err
}

func (m *mockConceptService) BuildGraph(
	_ context.Context, _ []domain.Keyphrase, threshold float64,
) (*domain.ConceptGraph, error) {
	m.lastThreshold = threshold
	return m.graph, m.err
}

func (m *mockConceptService) Render(_ context.Context, _ *domain.ConceptGraph) (string, error) {
	return "/tmp/map.html", m.err
}

func (m *mockConceptService) Map(_ context.Context, _ string) (*driving.ConceptMap, error) {
	return &driving.ConceptMap{Keyphrases: m.keyphrases, Graph: m.graph}, m.err
}

// mockInteractionService is a mock implementation of driving.InteractionService.
type mockInteractionService struct {
	records []domain.InteractionRecord
	err     error
	lastTag string
}

func (m *mockInteractionService) Record(_ context.Context, q, a, tag string) error {
	m.records = append(m.records, domain.NewInteractionRecord(q, a, tag))
	return m.err
}

func (m *mockInteractionService) List(_ context.Context) ([]domain.InteractionRecord, error) {
	return m.records, m.err
}

func (m *mockInteractionService) Recent(_ context.Context, _ int) ([]domain.InteractionRecord, error) {
	return m.records, m.err
}

func (m *mockInteractionService) Export(_ context.Context, w io.Writer, tag string) error {
	m.lastTag = tag
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "# Argonaut session: %s\n", tag)
	return err
}

// mockLiteratureService is a mock implementation of driving.LiteratureService.
type mockLiteratureService struct {
	papers []domain.Paper
	err    error
}

func (m *mockLiteratureService) Search(_ context.Context, _ string, _ int) ([]domain.Paper, error) {
	return m.papers, m.err
}

func (m *mockLiteratureService) IngestPapers(_ context.Context, _ []domain.Paper) (domain.IndexHandle, error) {
	return domain.IndexHandle{Name: driving.LiteratureSource}, m.err
}
