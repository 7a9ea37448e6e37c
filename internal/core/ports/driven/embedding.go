// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService maps text to fixed-size vectors. Chunks, questions and
// keyphrases are embedded with the same service so their cosine
// similarities are comparable.
//
// Implementations: Ollama, OpenAI and the offline feature hasher.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is fixed per model and recorded on every index built
	// with it; an index is only searchable with a matching embedder.
	Dimensions() int

	// ModelName is recorded on the index handle.
	ModelName() string

	// Ping checks the backend answers. Offline embedders return nil.
	Ping(ctx context.Context) error

	Close() error
}
