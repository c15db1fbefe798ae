package job

import (
	"context"
	"testing"
	"time"

	"github.com/winkovo0818/boss-copilot/internal/store"
)

func TestSaveAndLoadCurrent(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	posting := &Posting{
		Title:       "Go后端工程师",
		Company:     "示例科技",
		Description: "负责后端服务开发",
		Skills:      []string{"Go", "Redis"},
		ExtractedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	if err := SaveCurrent(ctx, st, posting); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := LoadCurrent(ctx, st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a posting")
	}

	if got.Title != posting.Title || got.Company != posting.Company {
		t.Fatalf("unexpected posting: %+v", got)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %v", got.Skills)
	}
	if !got.ExtractedAt.Equal(posting.ExtractedAt) {
		t.Fatalf("unexpected extraction time: %v", got.ExtractedAt)
	}
}

func TestLoadCurrentMissing(t *testing.T) {
	got, err := LoadCurrent(context.Background(), store.NewMemory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil posting, got %+v", got)
	}
}

func TestSaveCurrentNil(t *testing.T) {
	if err := SaveCurrent(context.Background(), store.NewMemory(), nil); err == nil {
		t.Fatal("expected error for nil posting")
	}
}
