package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// Ensure InteractionLog implements the interface.
var _ driven.InteractionLog = (*InteractionLog)(nil)

// InteractionLog is an in-memory implementation of driven.InteractionLog.
type InteractionLog struct {
	mu      sync.RWMutex
	records []domain.InteractionRecord
}

// NewInteractionLog creates an empty in-memory log.
func NewInteractionLog() *InteractionLog {
	return &InteractionLog{}
}

// Append adds a record after all existing ones.
func (l *InteractionLog) Append(_ context.Context, rec domain.InteractionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

// List returns every record, oldest first.
func (l *InteractionLog) List(_ context.Context) ([]domain.InteractionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.InteractionRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Close is a no-op for the memory log.
func (l *InteractionLog) Close() error {
	return nil
}
