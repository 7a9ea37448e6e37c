package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// PaperSearcher queries a literature database.
type PaperSearcher interface {
	// Search returns at most maxResults papers ordered by relevance.
	// Zero results is not an error.
	Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)
}
