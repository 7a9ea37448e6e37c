package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure ConceptService implements the interface.
var _ driving.ConceptService = (*ConceptService)(nil)

// ConceptService extracts keyphrases and connects them into a similarity graph.
type ConceptService struct {
	extractor driven.KeyphraseExtractor
	embedder  driven.EmbeddingService
	renderer  driven.GraphRenderer
	topK      int
	threshold float64
}

// ConceptOption configures a ConceptService.
type ConceptOption func(*ConceptService)

// WithConceptTopK sets the number of keyphrases extracted by default.
func WithConceptTopK(k int) ConceptOption {
	return func(s *ConceptService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithThreshold sets the default edge threshold used by Map.
func WithThreshold(t float64) ConceptOption {
	return func(s *ConceptService) {
		s.threshold = t
	}
}

// NewConceptService creates a concept service. The renderer may be nil
// when only extraction and graph building are needed.
func NewConceptService(
	extractor driven.KeyphraseExtractor,
	embedder driven.EmbeddingService,
	renderer driven.GraphRenderer,
	opts ...ConceptOption,
) *ConceptService {
	s := &ConceptService{
		extractor: extractor,
		embedder:  embedder,
		renderer:  renderer,
		topK:      domain.DefaultKeyphraseTopK,
		threshold: domain.DefaultSimilarityThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns up to topK keyphrases ranked by descending score.
func (s *ConceptService) Extract(ctx context.Context, text string, topK int) ([]domain.Keyphrase, error) {
	logger.Section("Keyphrases")

	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no keyphrase extractor configured", domain.ErrConfiguration)
	}
	if topK <= 0 {
		topK = s.topK
	}

	defer logger.Timed("extract keyphrases")()
	kps, err := s.extractor.Extract(ctx, text, topK)
	if err != nil {
		return nil, err
	}
	logger.Debug("extracted %d keyphrases (top_k=%d)", len(kps), topK)
	return kps, nil
}

// BuildGraph connects every pair of keyphrases whose embeddings have cosine
// similarity strictly above threshold. Nodes keep the input order; repeated
// phrases collapse onto their first occurrence.
func (s *ConceptService) BuildGraph(
	ctx context.Context, keyphrases []domain.Keyphrase, threshold float64,
) (*domain.ConceptGraph, error) {
	logger.Section("Concept Graph")

	if math.IsNaN(threshold) || threshold < -1 || threshold >= 1 {
		return nil, fmt.Errorf("%w: threshold %v outside [-1, 1)", domain.ErrInvalidInput, threshold)
	}

	graph := &domain.ConceptGraph{
		Nodes:     []domain.ConceptNode{},
		Edges:     []domain.ConceptEdge{},
		Threshold: threshold,
	}

	seen := make(map[string]struct{}, len(keyphrases))
	phrases := make([]string, 0, len(keyphrases))
	for _, kp := range keyphrases {
		if _, dup := seen[kp.Phrase]; dup {
			continue
		}
		seen[kp.Phrase] = struct{}{}
		graph.Nodes = append(graph.Nodes, domain.ConceptNode{
			ID:     len(graph.Nodes),
			Phrase: kp.Phrase,
			Score:  kp.Score,
			Size:   domain.NodeSize(kp.Score),
		})
		phrases = append(phrases, kp.Phrase)
	}
	if len(phrases) < 2 {
		return graph, nil
	}

	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrModelUnavailable)
	}
	vecs, err := s.embedder.EmbedBatch(ctx, phrases)
	if err != nil {
		return nil, fmt.Errorf("%w: embed keyphrases: %w", domain.ErrModelUnavailable, err)
	}
	if len(vecs) != len(phrases) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d keyphrases",
			domain.ErrModelUnavailable, len(vecs), len(phrases))
	}

	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			sim := domain.CosineSimilarity(vecs[i], vecs[j])
			if sim > threshold {
				graph.Edges = append(graph.Edges, domain.ConceptEdge{
					Source: i,
					Target: j,
					Weight: math.Min(sim, 1),
				})
			}
		}
	}

	logger.Debug("concept graph: %d nodes, %d edges at threshold %.2f",
		len(graph.Nodes), len(graph.Edges), threshold)
	return graph, nil
}

// Render writes the graph artifact and returns its path.
func (s *ConceptService) Render(ctx context.Context, graph *domain.ConceptGraph) (string, error) {
	if s.renderer == nil {
		return "", fmt.Errorf("%w: no graph renderer configured", domain.ErrConfiguration)
	}
	return s.renderer.Render(ctx, graph)
}

// Map extracts keyphrases from text, builds the graph with the configured
// threshold and renders it.
func (s *ConceptService) Map(ctx context.Context, text string) (*driving.ConceptMap, error) {
	kps, err := s.Extract(ctx, text, s.topK)
	if err != nil {
		return nil, err
	}
	graph, err := s.BuildGraph(ctx, kps, s.threshold)
	if err != nil {
		return nil, err
	}
	path, err := s.Render(ctx, graph)
	if err != nil {
		return nil, err
	}
	return &driving.ConceptMap{Keyphrases: kps, Graph: graph, Path: path}, nil
}
