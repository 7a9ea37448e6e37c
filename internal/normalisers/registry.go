package normalisers

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/normalisers/pdf"
	"github.com/custodia-labs/argonaut/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to normalisers by MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with the built-in normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the PDF and plain text normalisers.
func RegisterDefaults(r driven.NormaliserRegistry) {
	r.Register(pdf.New())
	r.Register(plaintext.New())
}

// Register adds a normaliser. Later registrations win ties on priority.
func (r *Registry) Register(n driven.Normaliser) {
	if n == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append([]driven.Normaliser{n}, r.normalisers...)
	sort.SliceStable(r.normalisers, func(a, b int) bool {
		return r.normalisers[a].Priority() > r.normalisers[b].Priority()
	})
}

// Normalise runs the highest-priority normaliser for the document's MIME type.
// A missing MIME type is detected from the URI and content.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if raw.MIMEType == "" {
		raw.MIMEType = DetectMIMEType(raw.URI, raw.Content)
	}

	n := r.lookup(raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("%w: no normaliser for %s", domain.ErrUnsupportedType, raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}

// SupportedMIMETypes returns every MIME type some normaliser handles, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	mimeType = baseMIMEType(mimeType)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if m == mimeType {
				return n
			}
		}
	}
	return nil
}

// extensionTypes covers extensions the mime package does not know on every platform.
var extensionTypes = map[string]string{
	".pdf":      "application/pdf",
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".tex":      "text/x-tex",
	".json":     "application/json",
	".xml":      "application/xml",
}

// DetectMIMEType guesses a MIME type from the file extension, then from
// the content. Parameters such as charset are dropped.
func DetectMIMEType(path string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return baseMIMEType(t)
	}
	if len(content) > 0 {
		return baseMIMEType(http.DetectContentType(content))
	}
	return "text/plain"
}

func baseMIMEType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}
