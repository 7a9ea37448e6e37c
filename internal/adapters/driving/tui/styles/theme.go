// Package styles provides the colours and lipgloss styles of the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Similarity bands used to colour retrieval scores.
const (
	StrongMatch = 0.75
	WeakMatch   = 0.40
)

// Theme is the colour palette.
type Theme struct {
	Primary    lipgloss.Color // titles, selection, answer rule
	Secondary  lipgloss.Color // subtitles, the echoed question
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color // status bar background
}

// DefaultTheme returns the amber and sky palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#D97706"),
		Secondary:  lipgloss.Color("#0EA5E9"),
		Foreground: lipgloss.Color("#E5E7EB"),
		Muted:      lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#34D399"),
		Warning:    lipgloss.Color("#FBBF24"),
		Error:      lipgloss.Color("#F87171"),
		Border:     lipgloss.Color("#374151"),
		Bar:        lipgloss.Color("#1F2937"),
	}
}

// Styles are the rendered styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style

	// InputField frames the question box.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Answer renders generated text behind a left rule.
	Answer lipgloss.Style

	// Question echoes the submitted question above its answer.
	Question lipgloss.Style

	scoreStrong lipgloss.Style
	scoreFair   lipgloss.Style
	scoreWeak   lipgloss.Style
}

// NewStyles derives styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Selected: fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Error:    fg(theme.Error),
		Success:  fg(theme.Success),
		Help:     fg(theme.Muted),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: fg(theme.Muted).Background(theme.Bar).Padding(0, 1),

		Answer: fg(theme.Foreground).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary).
			PaddingLeft(1),
		Question: fg(theme.Secondary).Italic(true),

		scoreStrong: fg(theme.Success),
		scoreFair:   fg(theme.Warning),
		scoreWeak:   fg(theme.Muted),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Score returns the style for a cosine similarity score.
func (s *Styles) Score(score float64) lipgloss.Style {
	switch {
	case score >= StrongMatch:
		return s.scoreStrong
	case score >= WeakMatch:
		return s.scoreFair
	default:
		return s.scoreWeak
	}
}
