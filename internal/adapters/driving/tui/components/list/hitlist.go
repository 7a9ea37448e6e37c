// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// HitList displays the chunks retrieved for an answer in a navigable list.
type HitList struct {
	hits     []domain.SearchHit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewHitList creates a new hit list component.
func NewHitList(s *styles.Styles) *HitList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &HitList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the hit list.
func (h *HitList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (h *HitList) Update(msg tea.Msg) (*HitList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			h.MoveUp()
		case "down", "j":
			h.MoveDown()
		}
	}
	return h, nil
}

// View renders the hit list.
func (h *HitList) View() string {
	if len(h.hits) == 0 {
		return h.styles.Muted.Render("No passages retrieved")
	}

	lines := make([]string, 0, len(h.hits)+2)
	lines = append(lines, h.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(h.hits))), "")

	// Each hit renders on two lines
	visibleCount := (h.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if h.selected >= visibleCount {
		start = h.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(h.hits) {
		end = len(h.hits)
	}

	for i := start; i < end; i++ {
		lines = append(lines, h.renderHit(i, &h.hits[i]))
	}

	return strings.Join(lines, "\n")
}

func (h *HitList) renderHit(index int, hit *domain.SearchHit) string {
	indicator := "  "
	if index == h.selected {
		indicator = "> "
	}

	label := fmt.Sprintf("%s%d. chunk %d  ", indicator, index+1, hit.Chunk.Position)
	score := fmt.Sprintf("[%.3f]", hit.Score)
	var header string
	if index == h.selected {
		header = h.styles.Selected.Render(label + score)
	} else {
		header = h.styles.Normal.Render(label) + h.styles.Score(hit.Score).Render(score)
	}

	maxPreviewLen := h.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	preview := strings.Join(strings.Fields(hit.Chunk.Content), " ")
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	return header + "\n" + h.styles.Muted.Render("    "+preview)
}

// SetHits replaces the hits and resets the selection.
func (h *HitList) SetHits(hits []domain.SearchHit) {
	h.hits = hits
	h.selected = 0
}

// Hits returns the current hits.
func (h *HitList) Hits() []domain.SearchHit {
	return h.hits
}

// Selected returns the index of the selected hit.
func (h *HitList) Selected() int {
	return h.selected
}

// SelectedHit returns the currently selected hit, or nil if none.
func (h *HitList) SelectedHit() *domain.SearchHit {
	if h.selected < 0 || h.selected >= len(h.hits) {
		return nil
	}
	return &h.hits[h.selected]
}

// MoveUp moves selection up.
func (h *HitList) MoveUp() {
	if h.selected > 0 {
		h.selected--
	}
}

// MoveDown moves selection down.
func (h *HitList) MoveDown() {
	if h.selected < len(h.hits)-1 {
		h.selected++
	}
}

// SetDimensions sets the component dimensions.
func (h *HitList) SetDimensions(width, height int) {
	h.width = width
	h.height = height
}

// Count returns the number of hits.
func (h *HitList) Count() int {
	return len(h.hits)
}

// IsEmpty returns whether the list is empty.
func (h *HitList) IsEmpty() bool {
	return len(h.hits) == 0
}
