package ai

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

type stubLLM struct {
	name   string
	closed atomic.Bool
}

func (s *stubLLM) Generate(context.Context, string, driven.GenerateOptions) (domain.GenerationResult, error) {
	return domain.GenerationResult{Text: s.name}, nil
}
func (s *stubLLM) ModelName() string          { return s.name }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error {
	s.closed.Store(true)
	return nil
}

func countingCreate(calls *atomic.Int32) CreateFunc {
	return func(_ context.Context, cfg domain.LLMConfig) (driven.LLMService, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &stubLLM{name: cfg.LocalModelPath + cfg.Model}, nil
	}
}

func TestCache_ReusesHandles(t *testing.T) {
	var calls atomic.Int32
	cache := NewCache(WithCreateFunc(countingCreate(&calls)))
	ctx := context.Background()

	cfg := domain.LLMConfig{LocalModelPath: "/models/mistral.gguf"}
	a, err := cache.LLM(ctx, cfg)
	require.NoError(t, err)
	b, err := cache.LLM(ctx, cfg.WithTemperature(1.2))
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestCache_DistinctConfigurations(t *testing.T) {
	var calls atomic.Int32
	cache := NewCache(WithCreateFunc(countingCreate(&calls)))
	ctx := context.Background()

	_, err := cache.LLM(ctx, domain.LLMConfig{RemoteAPIKey: "key-a"})
	require.NoError(t, err)
	_, err = cache.LLM(ctx, domain.LLMConfig{RemoteAPIKey: "key-b"})
	require.NoError(t, err)
	_, err = cache.LLM(ctx, domain.LLMConfig{RemoteAPIKey: "key-a", Model: "gpt-4o"})
	require.NoError(t, err)

	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, 3, cache.Len())
}

func TestCache_ConcurrentSameKeyBuildsOnce(t *testing.T) {
	var calls atomic.Int32
	cache := NewCache(WithCreateFunc(countingCreate(&calls)))
	cfg := domain.LLMConfig{LocalModelPath: "/models/llama.gguf"}

	var wg sync.WaitGroup
	results := make([]driven.LLMService, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc, err := cache.LLM(context.Background(), cfg)
			assert.NoError(t, err)
			results[i] = svc
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, svc := range results {
		assert.Same(t, results[0], svc)
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	fail := errors.New("boom")
	cache := NewCache(WithCreateFunc(func(context.Context, domain.LLMConfig) (driven.LLMService, error) {
		if calls.Add(1) == 1 {
			return nil, fail
		}
		return &stubLLM{name: "ok"}, nil
	}))
	cfg := domain.LLMConfig{RemoteAPIKey: "k"}

	_, err := cache.LLM(context.Background(), cfg)
	assert.ErrorIs(t, err, fail)

	svc, err := cache.LLM(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ok", svc.ModelName())
}

func TestCache_InvalidConfig(t *testing.T) {
	cache := NewCache(WithCreateFunc(func(context.Context, domain.LLMConfig) (driven.LLMService, error) {
		t.Fatal("create must not be called")
		return nil, nil
	}))

	_, err := cache.LLM(context.Background(), domain.LLMConfig{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCache_Close(t *testing.T) {
	stub := &stubLLM{name: "x"}
	cache := NewCache(WithCreateFunc(func(context.Context, domain.LLMConfig) (driven.LLMService, error) {
		return stub, nil
	}))

	_, err := cache.LLM(context.Background(), domain.LLMConfig{RemoteAPIKey: "k"})
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	assert.True(t, stub.closed.Load())
	assert.Zero(t, cache.Len())

	_, err = cache.LLM(context.Background(), domain.LLMConfig{RemoteAPIKey: "k"})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestCacheKey(t *testing.T) {
	hosted := CacheKey(domain.LLMConfig{RemoteAPIKey: "sk-secret"})
	assert.NotContains(t, hosted, "sk-secret")
	assert.Contains(t, hosted, "hosted|openai")

	local := CacheKey(domain.LLMConfig{LocalModelPath: "/m/ggml-gpt4all-j.bin"})
	assert.Contains(t, local, "gptj|")

	pinned := CacheKey(domain.LLMConfig{LocalModelPath: "/m/ggml-gpt4all-j.bin", Backend: domain.BackendAuto})
	assert.NotEqual(t, local, pinned)
}
