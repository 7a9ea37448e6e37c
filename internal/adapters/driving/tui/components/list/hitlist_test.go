package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

func sampleHits() []domain.SearchHit {
	return []domain.SearchHit{
		{Chunk: domain.Chunk{ID: "c0", Position: 0, Content: "Transformers replace recurrence."}, Score: 0.91},
		{Chunk: domain.Chunk{ID: "c3", Position: 3, Content: "Attention is computed in parallel."}, Score: 0.77},
		{Chunk: domain.Chunk{ID: "c7", Position: 7, Content: "Results on WMT 2014."}, Score: 0.52},
	}
}

func TestNewHitList(t *testing.T) {
	list := NewHitList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
	assert.True(t, list.IsEmpty())
	assert.Nil(t, list.SelectedHit())
	assert.Nil(t, list.Init())
}

func TestHitList_View_Empty(t *testing.T) {
	list := NewHitList(nil)

	assert.Contains(t, list.View(), "No passages retrieved")
}

func TestHitList_View_WithHits(t *testing.T) {
	list := NewHitList(nil)
	list.SetDimensions(100, 20)
	list.SetHits(sampleHits())

	view := list.View()

	assert.Contains(t, view, "Sources (3)")
	assert.Contains(t, view, "0.910")
	assert.Contains(t, view, "Transformers replace recurrence.")
}

func TestHitList_Navigation(t *testing.T) {
	list := NewHitList(nil)
	list.SetHits(sampleHits())

	list.MoveUp()
	assert.Equal(t, 0, list.Selected())

	list.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, list.Selected())

	list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, list.Selected())

	list.MoveDown()
	assert.Equal(t, 2, list.Selected())
	assert.Equal(t, "c7", list.SelectedHit().Chunk.ID)

	list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, list.Selected())
}

func TestHitList_SetHits_ResetsSelection(t *testing.T) {
	list := NewHitList(nil)
	list.SetHits(sampleHits())
	list.MoveDown()

	list.SetHits(sampleHits()[:1])

	assert.Equal(t, 0, list.Selected())
	assert.Equal(t, 1, list.Count())
}

func TestHitList_View_TruncatesPreview(t *testing.T) {
	list := NewHitList(nil)
	list.SetDimensions(30, 20)
	long := "word "
	for len(long) < 200 {
		long += long
	}
	list.SetHits([]domain.SearchHit{{Chunk: domain.Chunk{Content: long}, Score: 0.5}})

	assert.Contains(t, list.View(), "...")
}
