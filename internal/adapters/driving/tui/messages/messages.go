// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// QuestionAsked is a command to answer a question against the active index.
type QuestionAsked struct {
	Question string
}

// AnswerCompleted carries a generated answer back to the model.
type AnswerCompleted struct {
	Question string
	Answer   *driving.Answer
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewIndexes lists the ingested papers.
	ViewIndexes
	// ViewHistory lists recorded interactions.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewIndexes:
		return "indexes"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// IndexesLoaded carries the stored indexes.
type IndexesLoaded struct {
	Indexes []domain.IndexHandle
	Err     error
}

// IndexSelected signals an index was chosen for questions.
type IndexSelected struct {
	Index domain.IndexHandle
}

// HistoryLoaded carries recent interactions, newest first.
type HistoryLoaded struct {
	Records []domain.InteractionRecord
	Err     error
}

// SettingsLoaded carries the effective setting values.
type SettingsLoaded struct {
	Keys   []string
	Values map[string]string
	Err    error
}

// SettingSaved signals one setting was written.
type SettingSaved struct {
	Key string
	Err error
}
