// Package menu is the TUI start screen.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. An entry with Quit set exits instead of
// switching view.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

// DefaultItems are the entries in display order. Digits 1-9 select them.
var DefaultItems = []Item{
	{Label: "Ask", Description: "question the selected paper", View: messages.ViewAsk},
	{Label: "Indexes", Description: "choose an ingested paper", View: messages.ViewIndexes},
	{Label: "History", Description: "recent questions and answers", View: messages.ViewHistory},
	{Label: "Settings", Description: "providers and tuning", View: messages.ViewSettings},
	{Label: "Help", Description: "keybindings", View: messages.ViewHelp},
	{Label: "Quit", Quit: true},
}

// View renders the menu and tracks the cursor.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	items  []Item
	cursor int
	active string
	width  int
	height int
	ready  bool
}

// NewView creates the menu. Nil arguments take the defaults.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		items:  DefaultItems,
		width:  80,
		height: 24,
	}
}

func (v *View) Init() tea.Cmd { return nil }

// SetActive records the paper questions go to, shown in the header.
func (v *View) SetActive(source string) {
	v.active = source
}

// Update moves the cursor and activates entries.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			v.cursor = max(v.cursor-1, 0)
		case key.Matches(msg, v.keymap.Down):
			v.cursor = min(v.cursor+1, len(v.items)-1)
		case key.Matches(msg, v.keymap.Select):
			return v, v.activate(v.cursor)
		case key.Matches(msg, v.keymap.Quit):
			return v, tea.Quit
		default:
			if n, ok := digit(msg); ok && n <= len(v.items) {
				v.cursor = n - 1
				return v, v.activate(v.cursor)
			}
		}
	}
	return v, nil
}

func (v *View) activate(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg { return messages.ViewChanged{View: item.View} }
}

func digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// View renders the header, the entries and a key hint.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Argonaut"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Research paper assistant"))
	b.WriteString("\n")
	if v.active != "" {
		b.WriteString(v.styles.Muted.Render("Paper: " + v.active))
	} else {
		b.WriteString(v.styles.Muted.Render("No paper selected"))
	}
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		if item.Description != "" {
			b.WriteString(v.styles.Muted.Render("  " + item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] move  [1-6/enter] open  [q] quit"))
	return b.String()
}

// SetDimensions records the terminal size and marks the view ready.
func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.cursor
}
