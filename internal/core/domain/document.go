package domain

import (
	"maps"
	"path/filepath"
	"strings"
	"time"
)

// MetadataSource is the chunk metadata key carrying the source name.
const MetadataSource = "source"

// RawDocument is the unparsed content handed over by the ingestion boundary.
type RawDocument struct {
	// Source is the name the document is indexed under.
	Source string

	// URI is the file path or URL the content came from.
	URI string

	// MIMEType selects the normaliser.
	MIMEType string

	// Content holds the raw bytes.
	Content []byte

	// Metadata holds optional producer-specific attributes.
	Metadata map[string]any
}

// Title returns the "title" metadata entry, or a title derived from the URI.
func (r *RawDocument) Title() string {
	if t, ok := r.Metadata["title"].(string); ok && t != "" {
		return t
	}
	return FileTitle(r.URI)
}

// NewDocument builds the normalised form of r. Metadata is copied and the
// MIME type recorded under "mime_type".
func (r *RawDocument) NewDocument(id, title, content string) Document {
	meta := maps.Clone(r.Metadata)
	if meta == nil {
		meta = make(map[string]any, 2)
	}
	meta["mime_type"] = r.MIMEType

	return Document{
		ID:        id,
		Source:    r.Source,
		URI:       r.URI,
		Title:     title,
		Content:   content,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}
}

var titleSeparators = strings.NewReplacer("_", " ", "-", " ")

// FileTitle turns "/papers/graph_neural-nets.pdf" into "graph neural nets".
func FileTitle(uri string) string {
	name := filepath.Base(uri)
	return titleSeparators.Replace(strings.TrimSuffix(name, filepath.Ext(name)))
}

// Document is linear text loaded from a paper or a set of abstracts.
// It is immutable once chunked.
type Document struct {
	ID        string
	Source    string
	URI       string
	Title     string
	Content   string
	Metadata  map[string]any
	CreatedAt time.Time
}

// Chunk is a contiguous text unit and the unit of embedding and retrieval.
// Concatenating a document's chunks in Position order with the chunk
// delimiter reconstructs the document text.
type Chunk struct {
	ID         string
	DocumentID string
	Source     string
	Content    string
	Position   int
	Embedding  []float32
	Metadata   map[string]any
}
