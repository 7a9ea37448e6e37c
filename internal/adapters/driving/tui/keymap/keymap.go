// Package keymap holds the TUI keybindings and the help groupings the
// status bar and help view render.
package keymap

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the full set of bindings. Ask and Select share enter; which
// one applies depends on the focused view.
type KeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Back        key.Binding
	Ask         key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	NewQuestion key.Binding
	Reload      key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns vim-style list movement with arrow-key equivalents.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:        bind("q", "quit", "q", "ctrl+c"),
		Help:        bind("?", "help", "?"),
		Back:        bind("esc", "back", "esc"),
		Ask:         bind("enter", "ask", "enter"),
		Up:          bind("↑/k", "up", "up", "k"),
		Down:        bind("↓/j", "down", "down", "j"),
		Select:      bind("enter", "select", "enter"),
		NewQuestion: bind("n", "new question", "n"),
		Reload:      bind("r", "reload", "r"),
	}
}

// ShortHelp is shown while a question is being typed.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Ask, k.Back}
}

// AnsweredHelp is shown under an answer and its sources.
func (k *KeyMap) AnsweredHelp() []key.Binding {
	return []key.Binding{k.NewQuestion, k.Up, k.Down, k.Back}
}

// FullHelp groups every binding in columns: movement, questions, app.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Ask, k.NewQuestion, k.Back},
		{k.Reload, k.Help, k.Quit},
	}
}
