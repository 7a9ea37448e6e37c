package driven

import (
	"context"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// NormaliserRegistry picks a Normaliser by MIME type, preferring higher
// priorities. A missing MIME type is detected from the URI and content.
type NormaliserRegistry interface {
	// Normalise extracts text from raw with the best matching normaliser.
	// Unknown types yield domain.ErrUnsupportedType.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	Register(normaliser Normaliser)

	SupportedMIMETypes() []string
}
