// Package status renders the one-line bar under the ask view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/styles"
)

// State is what the bar reports on its left side.
type State int

const (
	StateReady State = iota
	StateThinking
	StateAnswered
	StateError
)

func (s State) String() string {
	switch s {
	case StateThinking:
		return "thinking"
	case StateAnswered:
		return "answered"
	case StateError:
		return "error"
	default:
		return "ready"
	}
}

// Bar shows the active paper, the request state and key hints.
// It has no input of its own; the owning view drives it.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	state  State
	detail string
	index  string
	hits   int
	width  int
}

// NewBar creates a bar. Nil arguments take the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, width: 80}
}

// State returns what the bar currently reports.
func (b *Bar) State() State { return b.state }

// SetIndex names the paper questions go to. Clear keeps it.
func (b *Bar) SetIndex(source string) { b.index = source }

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(width int) { b.width = width }

// Thinking marks a request in flight.
func (b *Bar) Thinking() {
	b.state, b.detail, b.hits = StateThinking, "", 0
}

// Answered reports an answer grounded on hits passages.
func (b *Bar) Answered(hits int) {
	b.state, b.detail, b.hits = StateAnswered, "", hits
}

// Failed reports err.
func (b *Bar) Failed(err error) {
	b.state, b.hits = StateError, 0
	b.detail = ""
	if err != nil {
		b.detail = err.Error()
	}
}

// Clear returns to the ready state.
func (b *Bar) Clear() {
	b.state, b.detail, b.hits = StateReady, "", 0
}

// View renders the bar on a single line of exactly its width. Hints are
// dropped first when space runs out, then the status is cut with an ellipsis.
func (b *Bar) View() string {
	inner := b.width - b.styles.StatusBar.GetHorizontalFrameSize()
	left, right := b.status(), b.hints()
	if inner < 1 {
		return ansi.Truncate(left, max(b.width, 0), "")
	}

	if lipgloss.Width(left)+1+lipgloss.Width(right) > inner {
		right = ""
	}
	left = ansi.Truncate(left, inner, "…")

	line := left
	if right != "" {
		line += strings.Repeat(" ", inner-lipgloss.Width(left)-lipgloss.Width(right)) + right
	}
	return b.styles.StatusBar.Width(b.width).MaxWidth(b.width).Render(line)
}

func (b *Bar) status() string {
	var text string
	switch b.state {
	case StateThinking:
		text = b.styles.Muted.Render("Thinking...")
	case StateAnswered:
		text = b.styles.Normal.Render(fmt.Sprintf("Answered from %d passages", b.hits))
	case StateError:
		msg := "Error"
		if b.detail != "" {
			msg += ": " + b.detail
		}
		text = b.styles.Error.Render(msg)
	default:
		text = b.styles.Muted.Render("Ready")
	}
	if b.index == "" {
		return text
	}
	return b.styles.Subtitle.Render("["+b.index+"] ") + text
}

func (b *Bar) hints() string {
	bindings := b.keymap.ShortHelp()
	if b.state == StateAnswered {
		bindings = b.keymap.AnsweredHelp()
	}
	parts := make([]string, len(bindings))
	for i, binding := range bindings {
		h := binding.Help()
		parts[i] = h.Key + ": " + h.Desc
	}
	return b.styles.Muted.Render(strings.Join(parts, " | "))
}
