package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// InteractionService records and reads the question/answer log.
type InteractionService interface {
	// Record appends a question/answer pair. An empty tag is stored as an absent context.
	Record(ctx context.Context, question, answer, tag string) error

	// List returns every record, oldest first.
	List(ctx context.Context) ([]domain.InteractionRecord, error)

	// Recent returns the last n records, newest first.
	Recent(ctx context.Context, n int) ([]domain.InteractionRecord, error)

	// Export writes the log as a Markdown transcript. A non-empty tag
	// restricts the transcript to records with that context.
	Export(ctx context.Context, w io.Writer, tag string) error
}
