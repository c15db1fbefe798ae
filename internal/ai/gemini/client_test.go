package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/winkovo0818/boss-copilot/internal/ai"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "  ", "gemini-2.5-flash"); !errors.Is(err, ai.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCompleteRejectsUninitializedGenerator(t *testing.T) {
	var g *Generator
	if _, err := g.Complete(context.Background(), "prompt", ai.CallOptions{}); err == nil {
		t.Fatal("expected error from nil generator")
	}
}
