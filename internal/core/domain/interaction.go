package domain

import "time"

// InteractionRecord is one logged question/answer pair.
// Records are never mutated or deleted once written.
type InteractionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`

	// Context tags the record, usually with the source name. Nil when absent.
	Context *string `json:"context,omitempty"`
}

// NewInteractionRecord builds a record stamped with the current time.
// An empty context leaves Context nil.
func NewInteractionRecord(question, answer, context string) InteractionRecord {
	rec := InteractionRecord{
		Timestamp: time.Now().UTC(),
		Question:  question,
		Answer:    answer,
	}
	if context != "" {
		rec.Context = &context
	}
	return rec
}

// ContextOrEmpty returns the context tag or an empty string.
func (r InteractionRecord) ContextOrEmpty() string {
	if r.Context == nil {
		return ""
	}
	return *r.Context
}
