// Package history keeps the analysis log: a newest-first list capped at 20
// entries, plus the aggregate statistics derived from it.
package history

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/store"
)

// MaxRecords caps the log; the oldest entry is evicted first.
const MaxRecords = 20

const historyKey = "history"

// ErrNotFound means no record carries the requested id.
var ErrNotFound = errors.New("history record not found")

// Record is one analyzed job.
type Record struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Title     string    `json:"title"`
	Score     int       `json:"score"`
	Strengths []string  `json:"strengths"`
	Gaps      []string  `json:"gaps"`
	Greeting  string    `json:"greeting,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats aggregates the current log.
type Stats struct {
	Total        int
	AverageScore int
	Highest      int
	Lowest       int
	// Distribution buckets: high >= 75, low < 60, medium in between.
	High   int
	Medium int
	Low    int
	// Daily counts for the last seven days, oldest first.
	Daily [7]int
}

// CompanyCount is one row of the per-company breakdown.
type CompanyCount struct {
	Company string
	Count   int
	Best    int
}

// Manager persists the log in a Store.
type Manager struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewManager builds a Manager over the given store.
func NewManager(s store.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}

	return &Manager{store: s, logger: log, now: time.Now}
}

// List returns the log, newest first. An empty store yields an empty slice.
func (m *Manager) List(ctx context.Context) ([]Record, error) {
	var records []Record
	err := store.GetJSON(ctx, m.store, historyKey, &records)
	if errors.Is(err, store.ErrNotFound) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Append prepends the record and evicts beyond MaxRecords. A missing id or
// timestamp is filled in.
func (m *Manager) Append(ctx context.Context, record Record) (*Record, error) {
	if record.Timestamp.IsZero() {
		record.Timestamp = m.now()
	}
	if record.ID == "" {
		record.ID = "h" + strconv.FormatInt(record.Timestamp.UnixNano(), 36)
	}

	records, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	records = append([]Record{record}, records...)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}

	if err := store.SetJSON(ctx, m.store, historyKey, records); err != nil {
		return nil, err
	}

	m.logger.Debug("history record appended",
		zap.String("id", record.ID), zap.Int("size", len(records)))

	return &record, nil
}

// AttachGreeting stores the generated greeting on an existing record.
func (m *Manager) AttachGreeting(ctx context.Context, id, greeting string) error {
	records, err := m.List(ctx)
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == id {
			records[i].Greeting = greeting
			return store.SetJSON(ctx, m.store, historyKey, records)
		}
	}

	return ErrNotFound
}

// Remove deletes one record by id.
func (m *Manager) Remove(ctx context.Context, id string) error {
	records, err := m.List(ctx)
	if err != nil {
		return err
	}

	for i, r := range records {
		if r.ID == id {
			records = append(records[:i], records[i+1:]...)
			return store.SetJSON(ctx, m.store, historyKey, records)
		}
	}

	return ErrNotFound
}

// Clear drops the whole log and returns how many records it held.
func (m *Manager) Clear(ctx context.Context) (int, error) {
	records, err := m.List(ctx)
	if err != nil {
		return 0, err
	}

	if len(records) == 0 {
		return 0, nil
	}

	err = m.store.Delete(ctx, historyKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}

	return len(records), nil
}

// Stats computes the aggregate view of the log.
func (m *Manager) Stats(ctx context.Context) (*Stats, error) {
	records, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(records)}
	if len(records) == 0 {
		return stats, nil
	}

	stats.Lowest = 100
	sum := 0
	today := m.now().Truncate(24 * time.Hour)

	for _, r := range records {
		sum += r.Score
		if r.Score > stats.Highest {
			stats.Highest = r.Score
		}
		if r.Score < stats.Lowest {
			stats.Lowest = r.Score
		}

		switch {
		case r.Score >= 75:
			stats.High++
		case r.Score < 60:
			stats.Low++
		default:
			stats.Medium++
		}

		daysAgo := int(today.Sub(r.Timestamp.Truncate(24*time.Hour)).Hours() / 24)
		if daysAgo >= 0 && daysAgo < 7 {
			stats.Daily[6-daysAgo]++
		}
	}

	stats.AverageScore = int(math.Round(float64(sum) / float64(len(records))))

	return stats, nil
}

// TopCompanies returns the most-analyzed companies, capped at limit, ordered
// by count then best score.
func (m *Manager) TopCompanies(ctx context.Context, limit int) ([]CompanyCount, error) {
	records, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	byCompany := make(map[string]*CompanyCount)
	order := []string{}
	for _, r := range records {
		if r.Company == "" {
			continue
		}
		entry, ok := byCompany[r.Company]
		if !ok {
			entry = &CompanyCount{Company: r.Company}
			byCompany[r.Company] = entry
			order = append(order, r.Company)
		}
		entry.Count++
		if r.Score > entry.Best {
			entry.Best = r.Score
		}
	}

	counts := make([]CompanyCount, 0, len(order))
	for _, company := range order {
		counts = append(counts, *byCompany[company])
	}

	for i := 0; i < len(counts); i++ {
		for j := i + 1; j < len(counts); j++ {
			if counts[j].Count > counts[i].Count ||
				(counts[j].Count == counts[i].Count && counts[j].Best > counts[i].Best) {
				counts[i], counts[j] = counts[j], counts[i]
			}
		}
	}

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	return counts, nil
}
