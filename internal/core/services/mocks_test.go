package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// testLLMConfig is a valid hosted configuration.
var testLLMConfig = domain.LLMConfig{RemoteAPIKey: "sk-test", Temperature: domain.DefaultAnswerTemperature}

// mockLLM is a test double for driven.LLMService.
type mockLLM struct {
	mu       sync.Mutex
	prompts  []string
	opts     []driven.GenerateOptions
	generate func(ctx context.Context, prompt string) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (domain.GenerationResult, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.generate == nil {
		return domain.GenerationResult{Text: "- generated"}, nil
	}
	text, err := m.generate(ctx, prompt)
	return domain.GenerationResult{Text: text}, err
}

func (m *mockLLM) ModelName() string          { return "mock" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLM) lastOptions() driven.GenerateOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.opts) == 0 {
		return driven.GenerateOptions{}
	}
	return m.opts[len(m.opts)-1]
}

// echoContext answers with the retrieved context of a question-answer prompt.
func echoContext(_ context.Context, prompt string) (string, error) {
	start := strings.Index(prompt, "answer.\n\n")
	end := strings.Index(prompt, "\n\nQuestion:")
	if start < 0 || end < 0 {
		return "", errors.New("unexpected prompt")
	}
	return "The paper says: " + prompt[start+len("answer.\n\n"):end], nil
}

// mockLLMFactory is a test double for driven.LLMFactory.
type mockLLMFactory struct {
	llm     *mockLLM
	err     error
	configs []domain.LLMConfig
}

func (f *mockLLMFactory) LLM(_ context.Context, cfg domain.LLMConfig) (driven.LLMService, error) {
	f.configs = append(f.configs, cfg)
	if f.err != nil {
		return nil, f.err
	}
	return f.llm, nil
}

func newMockFactory(generate func(ctx context.Context, prompt string) (string, error)) (*mockLLMFactory, *mockLLM) {
	llm := &mockLLM{generate: generate}
	return &mockLLMFactory{llm: llm}, llm
}

// mockPromptStore is a test double for driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// failingLog is an interaction log whose appends fail.
type failingLog struct {
	*memory.InteractionLog
}

func (failingLog) Append(context.Context, domain.InteractionRecord) error {
	return errors.New("disk full")
}

// mockSearcher is a test double for driven.PaperSearcher.
type mockSearcher struct {
	papers []domain.Paper
	err    error
	max    int
}

func (m *mockSearcher) Search(_ context.Context, _ string, maxResults int) ([]domain.Paper, error) {
	m.max = maxResults
	if m.err != nil {
		return nil, m.err
	}
	if maxResults < len(m.papers) {
		return m.papers[:maxResults], nil
	}
	return m.papers, nil
}

func newTestEmbedder(t *testing.T) *hashing.EmbeddingService {
	t.Helper()
	emb, err := hashing.NewEmbeddingService(0)
	require.NoError(t, err)
	return emb
}

func newTestIndexService(t *testing.T, opts ...IndexOption) *IndexService {
	t.Helper()
	svc := NewIndexService(memory.NewIndexStore(), newTestEmbedder(t), flat.NewVectorIndex, opts...)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func textChunks(lines ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(lines))
	for i, l := range lines {
		chunks[i] = domain.Chunk{Content: l, Position: i}
	}
	return chunks
}
