// Package settings provides the settings editor view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// View lists every settable key with its value and edits one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	keys     []string
	values   map[string]string
	selected int
	editing  bool
	input    textinput.Model
	notice   string
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	input := textinput.New()
	input.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		values:          map[string]string{},
		input:           input,
	}
}

// Init loads the current values.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		values, err := service.Values()
		return messages.SettingsLoaded{Keys: service.Keys(), Values: values, Err: err}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingSaved{Key: key, Err: service.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.keys = msg.Keys
		v.values = msg.Values
		if v.selected >= len(v.keys) {
			v.selected = 0
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(v.keys) {
			return v, v.startEdit(v.keys[v.selected])
		}
	case "r":
		return v, v.loadSettings()
	}
	return v, nil
}

func (v *View) startEdit(key string) tea.Cmd {
	v.editing = true
	v.notice = ""
	v.err = nil
	v.input.Reset()
	v.input.EchoMode = textinput.EchoNormal
	v.input.Placeholder = ""
	if v.isSecret(key) {
		v.input.EchoMode = textinput.EchoPassword
		v.input.Placeholder = "enter new value"
	} else {
		v.input.SetValue(v.values[key])
	}
	return v.input.Focus()
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		v.editing = false
		v.input.Blur()
		key := v.keys[v.selected]
		return v, v.saveSetting(key, strings.TrimSpace(v.input.Value()))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) isSecret(key string) bool {
	return v.settingsService != nil && v.settingsService.IsSecret(key)
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if len(v.keys) == 0 {
		b.WriteString(v.styles.Muted.Render("No settings loaded."))
	}

	width := 0
	for _, k := range v.keys {
		width = max(width, len(k))
	}
	for i, key := range v.keys {
		value := v.displayValue(key)
		line := fmt.Sprintf("%-*s  ", width, key)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
			if v.editing {
				b.WriteString(v.input.View())
			} else {
				b.WriteString(v.styles.Normal.Render(value))
			}
		} else {
			b.WriteString(v.styles.Normal.Render("  "+line) + v.styles.Muted.Render(value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[enter] edit  [r] reload  [esc] back"))
	}
	return b.String()
}

func (v *View) displayValue(key string) string {
	value := v.values[key]
	if value == "" {
		return "(not set)"
	}
	if v.isSecret(key) {
		if len(value) <= 8 {
			return "****"
		}
		return value[:4] + "..." + value[len(value)-4:]
	}
	return value
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset leaves edit mode and clears messages.
func (v *View) Reset() {
	v.editing = false
	v.input.Blur()
	v.notice = ""
	v.err = nil
}

// Keys returns the loaded keys.
func (v *View) Keys() []string {
	return v.keys
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.selected
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
