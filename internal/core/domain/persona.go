package domain

import (
	"fmt"
	"strings"
)

// Persona is the role a critique agent writes as.
type Persona string

// Available personas.
const (
	PersonaResearcher Persona = "researcher"
	PersonaReviewer   Persona = "reviewer"
	PersonaExplainer  Persona = "explainer"
)

// IsValid returns true if the persona is recognised.
func (p Persona) IsValid() bool {
	switch p {
	case PersonaResearcher, PersonaReviewer, PersonaExplainer:
		return true
	default:
		return false
	}
}

// Title returns the capitalised persona name used in prompts.
func (p Persona) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// ParsePersona converts a user-supplied name into a Persona.
func ParsePersona(s string) (Persona, error) {
	p := Persona(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: unknown persona %q", ErrInvalidInput, s)
	}
	return p, nil
}

// AllPersonas returns every persona in display order.
func AllPersonas() []Persona {
	return []Persona{PersonaResearcher, PersonaReviewer, PersonaExplainer}
}
