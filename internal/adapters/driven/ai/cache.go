package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.LLMFactory = (*Cache)(nil)

// CreateFunc builds an LLM service for a configuration.
type CreateFunc func(ctx context.Context, cfg domain.LLMConfig) (driven.LLMService, error)

// Cache keeps one LLM handle per distinct backend configuration so repeated
// requests reuse a loaded model. Temperature is not part of the key; it is
// passed per call. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	create   CreateFunc
	services map[string]driven.LLMService
	inflight map[string]*sync.WaitGroup
	closed   bool
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCreateFunc replaces the service constructor.
func WithCreateFunc(fn CreateFunc) CacheOption {
	return func(c *Cache) {
		c.create = fn
	}
}

// NewCache creates an empty cache backed by CreateLLMService.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		create:   CreateLLMService,
		services: make(map[string]driven.LLMService),
		inflight: make(map[string]*sync.WaitGroup),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LLM returns the cached service for cfg, creating it on first use.
// Concurrent callers with the same configuration share one construction.
func (c *Cache) LLM(ctx context.Context, cfg domain.LLMConfig) (driven.LLMService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	key := CacheKey(cfg)

	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: model cache is closed", domain.ErrModelUnavailable)
		}
		if svc, ok := c.services[key]; ok {
			c.mu.Unlock()
			return svc, nil
		}
		wait, busy := c.inflight[key]
		if !busy {
			wait = &sync.WaitGroup{}
			wait.Add(1)
			c.inflight[key] = wait
			c.mu.Unlock()
			break
		}
		c.mu.Unlock()
		wait.Wait()
	}

	svc, err := c.create(ctx, cfg)

	c.mu.Lock()
	wait := c.inflight[key]
	delete(c.inflight, key)
	if err == nil {
		if c.closed {
			_ = svc.Close()
			err = fmt.Errorf("%w: model cache is closed", domain.ErrModelUnavailable)
			svc = nil
		} else {
			c.services[key] = svc
			logger.Debug("cached LLM handle %s (%s)", key, svc.ModelName())
		}
	}
	c.mu.Unlock()
	wait.Done()

	if err != nil {
		return nil, err
	}
	return svc, nil
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.services)
}

// Close releases every cached handle. Later lookups fail.
func (c *Cache) Close() error {
	c.mu.Lock()
	services := c.services
	c.services = make(map[string]driven.LLMService)
	c.closed = true
	c.mu.Unlock()

	var firstErr error
	for _, svc := range services {
		if err := svc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CacheKey identifies the backend a configuration resolves to.
// API keys are fingerprinted, never stored.
func CacheKey(cfg domain.LLMConfig) string {
	backend := cfg.ResolvedBackend()
	if backend.IsLocal() {
		path, err := filepath.Abs(cfg.LocalModelPath)
		if err != nil {
			path = cfg.LocalModelPath
		}
		return fmt.Sprintf("%s|%s|%s|%s", backend, path, cfg.BaseURL, cfg.ResolvedTimeout())
	}

	sum := sha256.Sum256([]byte(cfg.RemoteAPIKey))
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s", backend, cfg.ResolvedProvider(), cfg.Model, cfg.BaseURL,
		hex.EncodeToString(sum[:6]), cfg.ResolvedTimeout())
}
