package driven

import "github.com/custodia-labs/argonaut/internal/core/domain"

// PromptStore supplies the templates the answer, hypothesis and critique
// services render. A name with no stored template yields the built-in one.
type PromptStore interface {
	Load(name string) (string, error)

	// Reload drops cached templates so edited files are picked up.
	Reload()
}

// Template names and the placeholders each one receives.
const (
	PromptQuestionAnswer = domain.PromptNameQA         // {context} {question}
	PromptHypotheses     = domain.PromptNameHypotheses // {n} {text}
	PromptCritique       = domain.PromptNameCritique   // {persona} {text}
)

// PromptStoreAware services accept a PromptStore after construction and
// use their built-in templates until one is set.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
