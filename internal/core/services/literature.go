package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure LiteratureService implements the interface.
var _ driving.LiteratureService = (*LiteratureService)(nil)

// LiteratureService searches a literature database and indexes abstracts.
type LiteratureService struct {
	searcher   driven.PaperSearcher
	index      driving.IndexService
	maxResults int
}

// NewLiteratureService creates a literature service. maxResults <= 0
// selects domain.DefaultPaperResults.
func NewLiteratureService(searcher driven.PaperSearcher, index driving.IndexService, maxResults int) *LiteratureService {
	if maxResults <= 0 {
		maxResults = domain.DefaultPaperResults
	}
	return &LiteratureService{
		searcher:   searcher,
		index:      index,
		maxResults: maxResults,
	}
}

// Search returns at most maxResults papers ordered by relevance.
func (s *LiteratureService) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	logger.Section("Literature Search")

	if s.searcher == nil {
		return nil, fmt.Errorf("%w: no literature searcher configured", domain.ErrConfiguration)
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	papers, err := s.searcher.Search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search papers: %w", err)
	}
	logger.Debug("literature search %q: %d papers", query, len(papers))
	return papers, nil
}

// IngestPapers indexes every non-blank summary line of papers under
// driving.LiteratureSource.
func (s *LiteratureService) IngestPapers(ctx context.Context, papers []domain.Paper) (domain.IndexHandle, error) {
	var chunks []domain.Chunk
	for _, p := range papers {
		for _, line := range strings.Split(p.Summary, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				Content:  line,
				Position: len(chunks),
				Metadata: map[string]any{
					"title": p.Title,
					"url":   p.URL,
				},
			})
		}
	}
	logger.Debug("ingesting %d papers as %d chunks", len(papers), len(chunks))
	return s.index.Build(ctx, driving.LiteratureSource, chunks)
}
