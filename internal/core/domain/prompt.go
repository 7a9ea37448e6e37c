package domain

import "strings"

// Prompt template names.
const (
	PromptNameQA         = "qa"
	PromptNameHypotheses = "hypotheses"
	PromptNameCritique   = "critique"
)

// DefaultPrompts are the built-in templates. Placeholders use {name} syntax.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var DefaultPrompts = map[string]string{
	PromptNameQA: `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

{context}

Question: {question}
Helpful Answer:`,

	PromptNameHypotheses: `You are a research scientist. Based on the following text, suggest {n} possible research hypotheses or experimental directions:

{text}

Start each suggestion with a dash (-).`,

	PromptNameCritique: `You are a {persona}. Given the following paper excerpt, provide a critique:

{text}

Respond with a critical analysis considering clarity, originality, and methodology.`,
}

// RequiredPlaceholders lists, per template, the placeholders a custom
// template must keep for the output to depend on its input.
var RequiredPlaceholders = map[string][]string{
	PromptNameQA:         {"context", "question"},
	PromptNameHypotheses: {"text"},
	PromptNameCritique:   {"text"},
}

// MissingPlaceholders returns the required placeholders absent from template.
func MissingPlaceholders(name, template string) []string {
	var missing []string
	for _, key := range RequiredPlaceholders[name] {
		if !strings.Contains(template, "{"+key+"}") {
			missing = append(missing, key)
		}
	}
	return missing
}

// FillPrompt substitutes {key} placeholders in template.
// Unknown placeholders are left untouched.
func FillPrompt(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
