package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/views/indexes"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	askView      *ask.View
	indexesView  *indexes.View
	historyView  *history.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s, km),
		askView:      ask.NewView(s, km, ports.Answer, ports.llmConfig()),
		indexesView:  indexes.NewView(s, ports.Index),
		historyView:  history.NewView(s, ports.Interactions, history.DefaultLimit),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	a.indexesView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// WithIndex preselects an index and starts on the ask view.
func (a *App) WithIndex(handle domain.IndexHandle) *App {
	a.askView.SetIndex(handle)
	a.currentView = messages.ViewAsk
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("argonaut"),
	}
	if a.currentView == messages.ViewAsk {
		cmds = append(cmds, a.askView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.IndexSelected:
		a.menuView.SetActive(msg.Index.Source)
		a.askView.SetIndex(msg.Index)
		a.currentView = messages.ViewAsk
		return a, a.askView.Init()

	case messages.AnswerCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.IndexesLoaded:
		a.indexesView, cmd = a.indexesView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewAsk {
			a.askView, cmd = a.askView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink) to the active view
	switch a.currentView {
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewMenu, messages.ViewIndexes, messages.ViewHistory, messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)

	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)

	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)

	case messages.ViewIndexes, messages.ViewHistory, messages.ViewHelp:
		switch {
		case key.Matches(msg, a.keymap.Back):
			a.currentView = messages.ViewMenu
			return a, nil
		case key.Matches(msg, a.keymap.Quit):
			return a, tea.Quit
		}
		if a.currentView == messages.ViewIndexes {
			a.indexesView, cmd = a.indexesView.Update(msg)
		} else if a.currentView == messages.ViewHistory {
			a.historyView, cmd = a.historyView.Update(msg)
		}
	}
	return a, cmd
}

// switchTo activates a view and returns its initial command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewAsk:
		return a.askView.Init()
	case messages.ViewIndexes:
		return a.indexesView.Init()
	case messages.ViewHistory:
		return a.historyView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewIndexes:
		return a.indexesView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Indexes:
  enter       Ask questions about the paper
  r           Reload

Ask:
  (type)      Enter a question
  enter       Ask
  n           New question after an answer
  j/k, ↑/↓    Browse the retrieved passages

History:
  enter       Show the full answer

Settings:
  enter       Edit the selected value
  esc         Cancel editing

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Index returns the index questions are asked against, or nil.
func (a *App) Index() *domain.IndexHandle {
	return a.askView.Index()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.indexesView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
