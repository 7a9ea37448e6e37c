// Package file provides the JSON-file interaction log.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure InteractionLog implements the interface.
var _ driven.InteractionLog = (*InteractionLog)(nil)

// InteractionLog stores records as one JSON array in a file.
// Every Append rewrites the whole file via a temp file and rename.
type InteractionLog struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// OpenInteractionLog opens the log at path, creating its directory.
// The file itself is created on the first Append.
func OpenInteractionLog(path string) (*InteractionLog, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: interaction log path is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &InteractionLog{path: path}, nil
}

// Path returns the log file path.
func (l *InteractionLog) Path() string {
	return l.path
}

// Append adds a record after all existing ones.
func (l *InteractionLog) Append(ctx context.Context, rec domain.InteractionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("%w: interaction log is closed", domain.ErrInvalidInput)
	}

	records := l.read()
	records = append(records, rec)
	return l.write(records)
}

// List returns every record, oldest first.
func (l *InteractionLog) List(ctx context.Context) ([]domain.InteractionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(), nil
}

// Close marks the log closed. Later appends fail.
func (l *InteractionLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// read loads the records. A missing file is empty; a corrupt one is
// reported and treated as empty (caller must hold lock).
func (l *InteractionLog) read() []domain.InteractionRecord {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Recovered("interaction log %s unreadable, starting empty: %v", l.path, err)
		}
		return []domain.InteractionRecord{}
	}
	if len(data) == 0 {
		return []domain.InteractionRecord{}
	}

	var records []domain.InteractionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Recovered("interaction log %s is corrupt, starting empty: %v", l.path, err)
		return []domain.InteractionRecord{}
	}
	if records == nil {
		records = []domain.InteractionRecord{}
	}
	return records
}

// write replaces the file with records (caller must hold lock).
func (l *InteractionLog) write(records []domain.InteractionRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), "tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("encode log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp log: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename temp log: %w", err)
	}
	return nil
}
