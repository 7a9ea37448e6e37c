package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown normaliser or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Model and generation errors.

	// ErrConfiguration indicates no valid backend was specified, or options conflict.
	ErrConfiguration = errors.New("configuration error")

	// ErrModelUnavailable indicates an embedding or language model failed to load.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrFileNotFound indicates a referenced local model or document file is absent.
	ErrFileNotFound = errors.New("file not found")

	// ErrGeneration indicates a backend call failed or returned unusable output.
	ErrGeneration = errors.New("generation failed")

	// ErrCorruptState indicates a persisted log or index could not be read.
	// Stores recover from it by treating the state as empty; it is never
	// returned from a public operation.
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrRateLimited indicates an external API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ErrorKind classifies failures for callers that need to branch on them
// without inspecting error strings.
type ErrorKind string

// Error kinds.
const (
	KindNone             ErrorKind = ""
	KindConfiguration    ErrorKind = "configuration"
	KindModelUnavailable ErrorKind = "model_unavailable"
	KindFileNotFound     ErrorKind = "file_not_found"
	KindGeneration       ErrorKind = "generation"
	KindInvalidInput     ErrorKind = "invalid_input"
)

// KindOf maps an error onto its ErrorKind.
// Errors that match no sentinel are reported as generation failures.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrFileNotFound):
		return KindFileNotFound
	case errors.Is(err, ErrModelUnavailable):
		return KindModelUnavailable
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindGeneration
	}
}
