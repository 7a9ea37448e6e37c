package driving

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// LiteratureSource is the index name literature search results are stored under.
const LiteratureSource = "arxiv_search"

// LiteratureService searches for papers and indexes their abstracts.
type LiteratureService interface {
	// Search returns at most maxResults papers. maxResults <= 0 selects
	// the configured default.
	Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error)

	// IngestPapers indexes the papers' summaries, one chunk per line.
	IngestPapers(ctx context.Context, papers []domain.Paper) (domain.IndexHandle, error)
}
