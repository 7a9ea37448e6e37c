package domain

import "time"

// IndexHandle identifies a persisted embedding index.
// One index exists per source; re-ingesting a source appends to it.
type IndexHandle struct {
	// Name is the storage key, derived from Source.
	Name string `json:"name"`

	// Source is the human-readable source name.
	Source string `json:"source"`

	// Model is the embedding model the vectors were produced with.
	Model string `json:"model"`

	// Dimensions is the vector size.
	Dimensions int `json:"dimensions"`

	// Chunks is the number of chunks stored at the time the handle was returned.
	Chunks int `json:"chunks"`

	CreatedAt time.Time `json:"created_at"`
}

// SearchHit is a chunk returned by similarity search.
type SearchHit struct {
	Chunk Chunk

	// Score is the cosine similarity between query and chunk.
	Score float64
}
