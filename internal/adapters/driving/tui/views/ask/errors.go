package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoAnswerService indicates that no answer service was provided.
	ErrNoAnswerService = errors.New("answer service is required")

	// ErrNoIndex indicates a question was asked before an index was chosen.
	ErrNoIndex = errors.New("no index selected, choose one from Indexes")
)
