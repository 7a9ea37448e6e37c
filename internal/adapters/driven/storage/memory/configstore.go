package memory

import (
	"fmt"
	"maps"
	"sync"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/config"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in memory. Save snapshots the values and Load
// restores the last snapshot, so tests can exercise rollback without a file.
type ConfigStore struct {
	mu    sync.RWMutex
	vals  config.Values
	saved config.Values
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{vals: config.Values{}, saved: config.Values{}}
}

// Get returns the raw value at key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.vals[key]
	return val, ok
}

// GetString returns the string at key.
func (s *ConfigStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals.String(key)
}

// GetInt returns the integer at key.
func (s *ConfigStore) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals.Int(key)
}

// GetFloat returns the number at key.
func (s *ConfigStore) GetFloat(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals.Float(key)
}

// GetBool returns the boolean at key.
func (s *ConfigStore) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals.Bool(key)
}

// GetStringSlice returns the strings at key.
func (s *ConfigStore) GetStringSlice(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals.StringSlice(key)
}

// Set stores value under key and snapshots the store.
func (s *ConfigStore) Set(key string, value any) error {
	if key == "" {
		return fmt.Errorf("%w: empty config key", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key] = value
	s.saved = maps.Clone(s.vals)
	return nil
}

// Save snapshots the current values.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = maps.Clone(s.vals)
	return nil
}

// Load restores the last snapshot.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals = maps.Clone(s.saved)
	return nil
}

// Path returns ":memory:".
func (s *ConfigStore) Path() string {
	return ":memory:"
}
