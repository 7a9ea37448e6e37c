// Package history provides the interaction history view for the TUI.
package history

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

// DefaultLimit is how many records the view loads.
const DefaultLimit = 20

// ErrNoInteractionService indicates that no interaction service was provided.
var ErrNoInteractionService = errors.New("interaction log not available")

// View shows the most recent questions and answers, newest first.
type View struct {
	styles  *styles.Styles
	service driving.InteractionService
	ctx     context.Context
	limit   int

	records  []domain.InteractionRecord
	selected int
	expanded bool
	width    int
	height   int
	err      error
	loading  bool
}

// NewView creates a new history view. A limit of zero or less uses DefaultLimit.
func NewView(s *styles.Styles, service driving.InteractionService, limit int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &View{
		styles:  s,
		service: service,
		ctx:     context.Background(),
		limit:   limit,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the recent records.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx, service, limit := v.ctx, v.service, v.limit
	return func() tea.Msg {
		if service == nil {
			return messages.HistoryLoaded{Err: ErrNoInteractionService}
		}
		records, err := service.Recent(ctx, limit)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.records = msg.Records
			v.selected = 0
			v.expanded = false
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.records)-1 {
				v.selected++
			}
		case "enter":
			v.expanded = !v.expanded
		case "r":
			v.loading = true
			return v, v.load()
		}
	}
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading history..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.records) == 0:
		b.WriteString(v.styles.Muted.Render("No interactions recorded."))
	default:
		for i := range v.records {
			b.WriteString(v.renderRecord(i, &v.records[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] expand  [r] reload  [esc] back  [q] quit"))
	return b.String()
}

func (v *View) renderRecord(index int, rec *domain.InteractionRecord) string {
	tag := rec.ContextOrEmpty()
	if tag == "" {
		tag = "-"
	}
	header := fmt.Sprintf("%s  [%s]  %s",
		rec.Timestamp.Local().Format(time.DateTime), tag, oneLine(rec.Question, v.width-40))

	if index != v.selected {
		return v.styles.Normal.Render("  " + header)
	}

	line := v.styles.Selected.Render("> " + header)
	if v.expanded {
		line += "\n" + v.styles.Answer.Width(v.width-6).Render(rec.Answer)
	} else {
		line += "\n" + v.styles.Muted.Render("    "+oneLine(rec.Answer, v.width-6))
	}
	return line
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if limit < 20 {
		limit = 20
	}
	if len(s) > limit {
		return s[:limit-3] + "..."
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Records returns the loaded records.
func (v *View) Records() []domain.InteractionRecord {
	return v.records
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Expanded reports whether the selected answer is shown in full.
func (v *View) Expanded() bool {
	return v.expanded
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
