// Package indexes provides the index picker view for the TUI.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// ErrNoIndexService indicates that no index service was provided.
var ErrNoIndexService = errors.New("index service not available")

// View lists the stored indexes and lets the user pick one to question.
type View struct {
	styles       *styles.Styles
	indexService driving.IndexService
	ctx          context.Context

	indexes  []domain.IndexHandle
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new indexes view.
func NewView(s *styles.Styles, indexService driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:       s,
		indexService: indexService,
		ctx:          context.Background(),
		indexes:      []domain.IndexHandle{},
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads indexes.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadIndexes()
}

func (v *View) loadIndexes() tea.Cmd {
	ctx := v.ctx
	service := v.indexService
	return func() tea.Msg {
		if service == nil {
			return messages.IndexesLoaded{Err: ErrNoIndexService}
		}
		handles, err := service.List(ctx)
		return messages.IndexesLoaded{Indexes: handles, Err: err}
	}
}

// Update handles messages for the indexes view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.IndexesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.indexes = msg.Indexes
		if v.selected >= len(v.indexes) {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.indexes)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(v.indexes) {
			handle := v.indexes[v.selected]
			return v, func() tea.Msg {
				return messages.IndexSelected{Index: handle}
			}
		}
	case "r":
		v.loading = true
		return v, v.loadIndexes()
	}

	return v, nil
}

// View renders the indexes view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Indexes"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading indexes..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.indexes) == 0:
		b.WriteString(v.styles.Muted.Render("No indexes. Run 'argonaut ingest <file>' to create one."))
	default:
		for i := range v.indexes {
			b.WriteString(v.renderIndex(i, &v.indexes[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] ask  [r] reload  [esc] back  [q] quit"))
	return b.String()
}

func (v *View) renderIndex(index int, handle *domain.IndexHandle) string {
	name := handle.Source
	if name == "" {
		name = handle.Name
	}
	maxNameLen := v.width - 40
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}
	detail := fmt.Sprintf("%d chunks  %s  %s",
		handle.Chunks, handle.Model, handle.CreatedAt.Local().Format(time.DateOnly))

	if index == v.selected {
		return v.styles.Selected.Render("> "+name) + "  " + v.styles.Muted.Render(detail)
	}
	return v.styles.Normal.Render("  "+name) + "  " + v.styles.Muted.Render(detail)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Indexes returns the loaded indexes.
func (v *View) Indexes() []domain.IndexHandle {
	return v.indexes
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
