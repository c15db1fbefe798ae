package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/store"
)

func newTestManager() *Manager {
	return NewManager(store.NewMemory(), zap.NewNop())
}

func TestAppendNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	for i := 1; i <= 3; i++ {
		if _, err := m.Append(ctx, Record{Title: fmt.Sprintf("岗位%d", i), Score: 60 + i}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	records, err := m.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(records) != 3 || records[0].Title != "岗位3" || records[2].Title != "岗位1" {
		t.Fatalf("expected newest first, got %+v", records)
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	for i := 1; i <= MaxRecords+1; i++ {
		if _, err := m.Append(ctx, Record{Title: fmt.Sprintf("岗位%d", i), Score: 50}); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	records, _ := m.List(ctx)
	if len(records) != MaxRecords {
		t.Fatalf("expected cap at %d, got %d", MaxRecords, len(records))
	}

	if records[len(records)-1].Title != "岗位2" {
		t.Fatalf("oldest record must be evicted, tail is %s", records[len(records)-1].Title)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	record, _ := m.Append(ctx, Record{Title: "岗位", Score: 70})
	if err := m.Remove(ctx, record.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	records, _ := m.List(ctx)
	if len(records) != 0 {
		t.Fatalf("expected empty log, got %+v", records)
	}

	if err := m.Remove(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	_, _ = m.Append(ctx, Record{Score: 70})
	_, _ = m.Append(ctx, Record{Score: 80})

	cleared, err := m.Clear(ctx)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if cleared != 2 {
		t.Fatalf("expected 2 cleared, got %d", cleared)
	}

	records, _ := m.List(ctx)
	if len(records) != 0 {
		t.Fatalf("expected empty log after clear, got %+v", records)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	for _, score := range []int{90, 75, 60, 40} {
		if _, err := m.Append(ctx, Record{Score: score, Timestamp: base}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	stats, err := m.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if stats.Total != 4 || stats.Highest != 90 || stats.Lowest != 40 {
		t.Fatalf("unexpected extremes: %+v", stats)
	}

	if stats.AverageScore != 66 {
		t.Fatalf("expected average 66, got %d", stats.AverageScore)
	}

	if stats.High != 2 || stats.Medium != 1 || stats.Low != 1 {
		t.Fatalf("unexpected distribution: %+v", stats)
	}

	if stats.Daily[6] != 4 {
		t.Fatalf("all records are from today, got daily %v", stats.Daily)
	}
}

func TestStatsEmpty(t *testing.T) {
	stats, err := newTestManager().Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if stats.Total != 0 || stats.Lowest != 0 {
		t.Fatalf("unexpected empty stats: %+v", stats)
	}
}

func TestTopCompanies(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	_, _ = m.Append(ctx, Record{Company: "甲公司", Score: 60})
	_, _ = m.Append(ctx, Record{Company: "乙公司", Score: 90})
	_, _ = m.Append(ctx, Record{Company: "甲公司", Score: 80})

	counts, err := m.TopCompanies(ctx, 10)
	if err != nil {
		t.Fatalf("top companies failed: %v", err)
	}

	if len(counts) != 2 || counts[0].Company != "甲公司" || counts[0].Count != 2 || counts[0].Best != 80 {
		t.Fatalf("unexpected ranking: %+v", counts)
	}
}
