package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// testMocks holds the mock services installed by setupTestServices.
type testMocks struct {
	index        *mockIndexService
	ingest       *mockIngestService
	answer       *mockAnswerService
	hypotheses   *mockHypothesisService
	critique     *mockCritiqueService
	concepts     *mockConceptService
	interactions *mockInteractionService
	literature   *mockLiteratureService
	settings     *mockSettingsService
}

// setupTestServices installs fresh mocks and restores the globals afterwards.
func setupTestServices(t *testing.T) *testMocks {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")

	m := &testMocks{
		index: &mockIndexService{handles: []domain.IndexHandle{{
			Name: "attention", Source: "attention.pdf", Model: "hashing",
			Dimensions: 256, Chunks: 12, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		}}},
		ingest:       &mockIngestService{},
		answer:       &mockAnswerService{},
		hypotheses:   &mockHypothesisService{result: domain.HypothesisOK("- Sparse attention suffices")},
		critique:     &mockCritiqueService{},
		concepts:     &mockConceptService{},
		interactions: &mockInteractionService{},
		literature:   &mockLiteratureService{},
		settings:     newMockSettingsService(),
	}
	SetServices(&Services{
		Index:        m.index,
		Ingest:       m.ingest,
		Answer:       m.answer,
		Hypotheses:   m.hypotheses,
		Critique:     m.critique,
		Concepts:     m.concepts,
		Interactions: m.interactions,
		Literature:   m.literature,
		Settings:     m.settings,
	})
	t.Cleanup(func() {
		SetServices(nil)
		globalOpts = GlobalOptions{}
	})
	return m
}

// runCommand executes the root command with args and returns its output.
// Flags are reset first because cobra keeps values between executions.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type mockIndexService struct {
	handles []domain.IndexHandle
	hits    []domain.SearchHit
	err     error
}

func (m *mockIndexService) Build(_ context.Context, source string, chunks []domain.Chunk) (domain.IndexHandle, error) {
	return domain.IndexHandle{Name: source, Source: source, Chunks: len(chunks)}, m.err
}

func (m *mockIndexService) Open(_ context.Context, source string) (domain.IndexHandle, error) {
	for _, h := range m.handles {
		if h.Source == source || h.Name == source {
			return h, nil
		}
	}
	return domain.IndexHandle{}, fmt.Errorf("%w: index for %s", domain.ErrNotFound, source)
}

func (m *mockIndexService) Search(context.Context, domain.IndexHandle, string, int) ([]domain.SearchHit, error) {
	return m.hits, m.err
}

func (m *mockIndexService) List(context.Context) ([]domain.IndexHandle, error) {
	return m.handles, m.err
}

type mockIngestService struct {
	err      error
	lastPath string
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (*driving.Ingestion, error) {
	m.lastPath = path
	if m.err != nil {
		return nil, m.err
	}
	return &driving.Ingestion{
		Document: domain.Document{Source: path},
		Chunks:   make([]domain.Chunk, 3),
		Index:    domain.IndexHandle{Name: "paper", Source: path, Model: "hashing", Dimensions: 256, Chunks: 3},
	}, nil
}

func (m *mockIngestService) IngestText(_ context.Context, source, text string) (*driving.Ingestion, error) {
	return &driving.Ingestion{Document: domain.Document{Source: source, Content: text}}, m.err
}

func (m *mockIngestService) LoadText(_ context.Context, path string) (*domain.Document, error) {
	m.lastPath = path
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{Source: path, Content: "Attention is all you need."}, nil
}

type mockAnswerService struct {
	err      error
	lastCfg  domain.LLMConfig
	question string
}

func (m *mockAnswerService) Answer(
	ctx context.Context, h domain.IndexHandle, q string, cfg domain.LLMConfig,
) (string, error) {
	a, err := m.AnswerWithSources(ctx, h, q, cfg)
	if err != nil {
		return "", err
	}
	return a.Text, nil
}

func (m *mockAnswerService) AnswerWithSources(
	_ context.Context, _ domain.IndexHandle, q string, cfg domain.LLMConfig,
) (*driving.Answer, error) {
	m.lastCfg = cfg
	m.question = q
	if m.err != nil {
		return nil, m.err
	}
	return &driving.Answer{
		Text: "The Transformer.",
		Sources: []domain.SearchHit{
			{Chunk: domain.Chunk{ID: "c1", Content: "We propose the   Transformer."}, Score: 0.912},
		},
	}, nil
}

type mockHypothesisService struct {
	result  domain.HypothesisResult
	lastN   int
	lastCfg domain.LLMConfig
}

func (m *mockHypothesisService) Generate(_ context.Context, _ string, cfg domain.LLMConfig, n int) domain.HypothesisResult {
	m.lastN = n
	m.lastCfg = cfg
	return m.result
}

func (m *mockHypothesisService) Suggest(ctx context.Context, text string, cfg domain.LLMConfig, n int) string {
	return m.Generate(ctx, text, cfg, n).Display()
}

type mockCritiqueService struct {
	err         error
	lastPersona domain.Persona
}

func (m *mockCritiqueService) Critique(
	_ context.Context, persona domain.Persona, _ string, _ domain.LLMConfig,
) (string, error) {
	m.lastPersona = persona
	if m.err != nil {
		return "", m.err
	}
	return "critique from " + string(persona), nil
}

func (m *mockCritiqueService) CritiqueAll(_ context.Context, _ string, _ domain.LLMConfig) ([]driving.Critique, error) {
	out := []driving.Critique{{Persona: domain.PersonaResearcher, Text: "novel"}}
	if m.err != nil {
		return out, m.err
	}
	out = append(out,
		driving.Critique{Persona: domain.PersonaReviewer, Text: "weak baselines"},
		driving.Critique{Persona: domain.PersonaExplainer, Text: "it pays attention"},
	)
	return out, nil
}

type mockConceptService struct {
	err           error
	lastTopK      int
	lastThreshold float64
}

func (m *mockConceptService) Extract(_ context.Context, _ string, topK int) ([]domain.Keyphrase, error) {
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Keyphrase{{Phrase: "attention", Score: 0.9}, {Phrase: "self attention", Score: 0.7}}, nil
}

func (m *mockConceptService) BuildGraph(
	_ context.Context, kps []domain.Keyphrase, threshold float64,
) (*domain.ConceptGraph, error) {
	m.lastThreshold = threshold
	g := &domain.ConceptGraph{Threshold: threshold}
	for i, kp := range kps {
		g.Nodes = append(g.Nodes, domain.ConceptNode{ID: i, Phrase: kp.Phrase, Score: kp.Score})
	}
	g.Edges = []domain.ConceptEdge{{Source: 0, Target: 1, Weight: 0.8}}
	return g, nil
}

func (m *mockConceptService) Render(context.Context, *domain.ConceptGraph) (string, error) {
	return "/tmp/concepts/attention.html", nil
}

func (m *mockConceptService) Map(ctx context.Context, text string) (*driving.ConceptMap, error) {
	kps, err := m.Extract(ctx, text, 0)
	if err != nil {
		return nil, err
	}
	g, _ := m.BuildGraph(ctx, kps, domain.DefaultSimilarityThreshold)
	return &driving.ConceptMap{Keyphrases: kps, Graph: g, Path: "/tmp/concepts/attention.html"}, nil
}

type mockInteractionService struct {
	records   []domain.InteractionRecord
	recorded  []domain.InteractionRecord
	err       error
	lastLimit int
	lastTag   string
}

func (m *mockInteractionService) Record(_ context.Context, question, answer, tag string) error {
	if m.err != nil {
		return m.err
	}
	rec := domain.InteractionRecord{Question: question, Answer: answer}
	if tag != "" {
		rec.Context = &tag
	}
	m.recorded = append(m.recorded, rec)
	return nil
}

func (m *mockInteractionService) List(context.Context) ([]domain.InteractionRecord, error) {
	return m.records, m.err
}

func (m *mockInteractionService) Recent(_ context.Context, n int) ([]domain.InteractionRecord, error) {
	m.lastLimit = n
	return m.records, m.err
}

func (m *mockInteractionService) Export(_ context.Context, w io.Writer, tag string) error {
	m.lastTag = tag
	_, err := fmt.Fprintf(w, "# Argonaut session: %s\n", tag)
	return err
}

type mockLiteratureService struct {
	papers    []domain.Paper
	err       error
	lastQuery string
	lastMax   int
	ingested  int
}

func (m *mockLiteratureService) Search(_ context.Context, query string, maxResults int) ([]domain.Paper, error) {
	m.lastQuery = query
	m.lastMax = maxResults
	return m.papers, m.err
}

func (m *mockLiteratureService) IngestPapers(_ context.Context, papers []domain.Paper) (domain.IndexHandle, error) {
	m.ingested = len(papers)
	return domain.IndexHandle{Name: driving.LiteratureSource, Chunks: len(papers)}, nil
}

type mockSettingsService struct {
	settings domain.AppSettings
	sets     map[string]string
	setErr   error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings("/home/test"),
		sets:     map[string]string{},
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = p
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = p
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLocalModel(path string, backend domain.Backend) error {
	m.settings.LLM.LocalModelPath = path
	m.settings.LLM.Backend = backend
	m.settings.LLM.APIKey = ""
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings("/home/test")
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.api_key", "llm.model", "retrieval.top_k"}
}

func (m *mockSettingsService) Values() (map[string]string, error) {
	return map[string]string{"llm.model": m.settings.LLM.Model}, nil
}

func (m *mockSettingsService) IsSecret(key string) bool { return key == "llm.api_key" }

func (m *mockSettingsService) ValidateEmbeddingConfig(context.Context) error { return nil }
func (m *mockSettingsService) ValidateLLMConfig(context.Context) error       { return nil }
