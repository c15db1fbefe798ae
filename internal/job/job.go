// Package job holds the job posting model produced by page extractors.
package job

import (
	"context"
	"errors"
	"time"

	"github.com/winkovo0818/boss-copilot/internal/store"
)

const currentKey = "currentJob"

// Posting is an immutable snapshot of a vacancy as extracted from the page.
// Skills keep their extraction order and contain no duplicates.
type Posting struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	Experience  string    `json:"experience,omitempty"`
	Education   string    `json:"education,omitempty"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	ExtractedAt time.Time `json:"extractedAt,omitempty"`
}

// Extractor produces a Posting from the page the user is looking at.
// The DOM scraping itself lives outside this module.
type Extractor interface {
	ExtractJobDetails(ctx context.Context) (*Posting, error)
}

// SaveCurrent remembers the last extracted posting so later commands can reuse it.
func SaveCurrent(ctx context.Context, s store.Store, p *Posting) error {
	if p == nil {
		return errors.New("posting is required")
	}

	return store.SetJSON(ctx, s, currentKey, p)
}

// LoadCurrent returns the last extracted posting, or nil when none was saved.
func LoadCurrent(ctx context.Context, s store.Store) (*Posting, error) {
	var p Posting
	err := store.GetJSON(ctx, s, currentKey, &p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
