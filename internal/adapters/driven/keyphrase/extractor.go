// Package keyphrase ranks candidate phrases of a document by embedding similarity.
//
// Candidates are n-grams of one to three word tokens taken from runs of
// non-stop-words. Each candidate is scored by the cosine similarity between
// its embedding and the embedding of the whole document, so the result is
// deterministic for a fixed embedding model.
package keyphrase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.KeyphraseExtractor = (*Extractor)(nil)

// DefaultMaxCandidates bounds the number of candidates embedded per document.
const DefaultMaxCandidates = 2000

// tokenPattern matches word tokens with internal hyphens or apostrophes.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`)

// Extractor extracts keyphrases with an embedding model.
type Extractor struct {
	embedder      driven.EmbeddingService
	maxNGram      int
	maxCandidates int
	stopWords     map[string]struct{}
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxNGram sets the longest candidate in tokens, clamped to [1, 3].
func WithMaxNGram(n int) Option {
	return func(e *Extractor) {
		switch {
		case n < 1:
			e.maxNGram = 1
		case n > domain.MaxKeyphraseTokens:
			e.maxNGram = domain.MaxKeyphraseTokens
		default:
			e.maxNGram = n
		}
	}
}

// WithMaxCandidates bounds how many candidates are embedded.
// The most frequent candidates are kept.
func WithMaxCandidates(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxCandidates = n
		}
	}
}

// WithStopWords replaces the stop list.
func WithStopWords(words []string) Option {
	return func(e *Extractor) {
		e.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			e.stopWords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// New creates an extractor backed by embedder.
func New(embedder driven.EmbeddingService, opts ...Option) *Extractor {
	e := &Extractor{
		embedder:      embedder,
		maxNGram:      domain.MaxKeyphraseTokens,
		maxCandidates: DefaultMaxCandidates,
		stopWords:     englishStopWords,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns at most topK keyphrases ranked by descending score.
// Equal scores are ordered by phrase. topK <= 0 selects DefaultKeyphraseTopK.
// Text without candidates yields an empty result.
func (e *Extractor) Extract(ctx context.Context, text string, topK int) ([]domain.Keyphrase, error) {
	if e.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrModelUnavailable)
	}
	if topK <= 0 {
		topK = domain.DefaultKeyphraseTopK
	}

	candidates := e.Candidates(text)
	if len(candidates) == 0 {
		return []domain.Keyphrase{}, nil
	}
	logger.Debug("keyphrase: %d candidates from %d runes", len(candidates), utf8.RuneCountInString(text))
	defer logger.Timed("keyphrase extraction")()

	docVec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed document: %w", domain.ErrModelUnavailable, err)
	}
	vecs, err := e.embedder.EmbedBatch(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: embed candidates: %w", domain.ErrModelUnavailable, err)
	}
	if len(vecs) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d candidate embeddings, want %d",
			domain.ErrModelUnavailable, len(vecs), len(candidates))
	}

	ranked := make([]domain.Keyphrase, len(candidates))
	for i, phrase := range candidates {
		ranked[i] = domain.Keyphrase{
			Phrase: phrase,
			Score:  domain.CosineSimilarity(docVec, vecs[i]),
		}
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].Phrase < ranked[b].Phrase
	})

	if topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

// Candidates returns the distinct candidate phrases of text in order of
// first appearance. When there are more than the configured maximum, the
// most frequent are kept.
func (e *Extractor) Candidates(text string) []string {
	tokens := Tokenize(text)

	var (
		order  []string
		counts = make(map[string]int)
		run    []string
	)
	flush := func() {
		for i := range run {
			for n := 1; n <= e.maxNGram && i+n <= len(run); n++ {
				phrase := strings.Join(run[i:i+n], " ")
				if counts[phrase] == 0 {
					order = append(order, phrase)
				}
				counts[phrase]++
			}
		}
		run = run[:0]
	}

	for _, tok := range tokens {
		if _, stop := e.stopWords[tok]; stop {
			flush()
			continue
		}
		run = append(run, tok)
	}
	flush()

	if len(order) <= e.maxCandidates {
		return order
	}

	kept := append([]string(nil), order...)
	sort.SliceStable(kept, func(a, b int) bool {
		return counts[kept[a]] > counts[kept[b]]
	})
	keep := make(map[string]struct{}, e.maxCandidates)
	for _, p := range kept[:e.maxCandidates] {
		keep[p] = struct{}{}
	}

	out := make([]string, 0, e.maxCandidates)
	for _, p := range order {
		if _, ok := keep[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Tokenize lowercases text and returns its word tokens of two or more runes.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := matches[:0]
	for _, m := range matches {
		if utf8.RuneCountInString(m) >= 2 {
			out = append(out, m)
		}
	}
	return out
}
