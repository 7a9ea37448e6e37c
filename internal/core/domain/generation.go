package domain

import "fmt"

// GenerationResult is the normalised output of every LLM backend.
type GenerationResult struct {
	Text string
}

// HypothesisResult is the tagged outcome of hypothesis generation.
// Exactly one of Text (Kind == KindNone) or Kind/Message is meaningful.
type HypothesisResult struct {
	// Text is the raw generated text, expected to hold dash-prefixed suggestions.
	Text string

	// Kind is KindNone on success.
	Kind ErrorKind

	// Message is a short human-readable diagnostic on failure.
	Message string
}

// HypothesisOK wraps generated text as a successful result.
func HypothesisOK(text string) HypothesisResult {
	return HypothesisResult{Text: text}
}

// HypothesisErr builds a failed result.
func HypothesisErr(kind ErrorKind, message string) HypothesisResult {
	return HypothesisResult{Kind: kind, Message: message}
}

// OK reports whether generation succeeded.
func (r HypothesisResult) OK() bool {
	return r.Kind == KindNone
}

// Display flattens the result to a single string for UI surfaces.
func (r HypothesisResult) Display() string {
	if r.OK() {
		return r.Text
	}
	return r.Message
}

// Err returns the failure as an error wrapping the sentinel for Kind,
// or nil on success.
func (r HypothesisResult) Err() error {
	if r.OK() {
		return nil
	}
	var sentinel error
	switch r.Kind {
	case KindConfiguration:
		sentinel = ErrConfiguration
	case KindFileNotFound:
		sentinel = ErrFileNotFound
	case KindModelUnavailable:
		sentinel = ErrModelUnavailable
	case KindInvalidInput:
		sentinel = ErrInvalidInput
	default:
		sentinel = ErrGeneration
	}
	return fmt.Errorf("%w: %s", sentinel, r.Message)
}
