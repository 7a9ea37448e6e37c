// Package plaintext normalises text formats that need no parsing: notes,
// Markdown, LaTeX sources and structured text kept verbatim.
package plaintext

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var textTypes = []string{
	"text/plain",
	"text/markdown",
	"text/x-markdown",
	"text/csv",
	"text/tab-separated-values",
	"text/x-tex",
	"application/x-tex",
	"application/json",
	"application/xml",
}

// lineEndings folds CRLF and lone CR to LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normaliser is the fallback for every text type.
type Normaliser struct{}

// New creates a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

func (n *Normaliser) SupportedMIMETypes() []string {
	return append([]string(nil), textTypes...)
}

// Priority is low so format-specific normalisers win.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise decodes the bytes as UTF-8 text. A leading byte order mark is
// dropped, line endings become "\n" and invalid sequences are replaced.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.TrimPrefix(string(raw.Content), "\ufeff")
	text = strings.ToValidUTF8(lineEndings.Replace(text), "\uFFFD")

	doc := raw.NewDocument(uuid.NewString(), raw.Title(), text)
	doc.Metadata["lines"] = strings.Count(text, "\n") + 1
	return &driven.NormaliseResult{Document: doc}, nil
}
