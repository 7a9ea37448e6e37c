package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// IndexService builds and queries per-source embedding indexes.
type IndexService interface {
	// Build embeds the chunks and appends them to the index for source,
	// creating it on first use. Blank chunks are skipped.
	Build(ctx context.Context, source string, chunks []domain.Chunk) (domain.IndexHandle, error)

	// Open returns the handle of a previously built index.
	Open(ctx context.Context, source string) (domain.IndexHandle, error)

	// Search returns the k chunks most similar to query, best first.
	// A blank query or an empty index yields an empty result.
	Search(ctx context.Context, handle domain.IndexHandle, query string, k int) ([]domain.SearchHit, error)

	// List returns every stored index.
	List(ctx context.Context) ([]domain.IndexHandle, error)
}
