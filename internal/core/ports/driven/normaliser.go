package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// Normaliser turns the raw bytes of one family of MIME types into the
// linear text of a Document. Splitting into chunks happens later in the
// post-processing pipeline.
type Normaliser interface {
	SupportedMIMETypes() []string

	// Priority breaks ties between normalisers claiming the same type.
	// Format parsers use 50 and up, text fallbacks stay below 10.
	Priority() int

	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult carries the normalised document.
type NormaliseResult struct {
	Document domain.Document
}
