package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// InteractionLog is an append-only record of question/answer pairs.
// A corrupt backing store reads as empty.
type InteractionLog interface {
	// Append adds a record after all existing ones.
	Append(ctx context.Context, rec domain.InteractionRecord) error

	// List returns every record, oldest first.
	List(ctx context.Context) ([]domain.InteractionRecord, error)

	// Close releases the store handle.
	Close() error
}
