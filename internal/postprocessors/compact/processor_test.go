package compact

import (
	"context"
	"testing"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

func TestProcessor_Process(t *testing.T) {
	in := []domain.Chunk{
		{ID: "a", Content: "alpha", Position: 0},
		{ID: "b", Content: "", Position: 1},
		{ID: "c", Content: " \t ", Position: 2},
		{ID: "d", Content: "delta", Position: 3},
	}

	out, err := New().Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "d" {
		t.Errorf("unexpected order: %s, %s", out[0].ID, out[1].ID)
	}
	if out[1].Position != 1 {
		t.Errorf("expected renumbered position 1, got %d", out[1].Position)
	}
	if in[3].Position != 3 {
		t.Error("input chunks must not be modified")
	}
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "compact" {
		t.Errorf("expected name 'compact', got %q", New().Name())
	}
}
