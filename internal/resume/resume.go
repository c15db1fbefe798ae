// Package resume manages the user's stored resumes: a small ordered
// collection where the first entry is the default used for analysis.
package resume

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/store"
)

const (
	// MaxResumes caps the collection size.
	MaxResumes = 5
	// MinContentLength rejects uploads too short to be a real resume.
	MinContentLength = 50
	// MaxFileSize bounds raw uploads.
	MaxFileSize = 5 << 20

	resumesKey = "resumes"
	// legacyKey mirrors the default resume's content for data written by
	// older versions that only knew a single resume.
	legacyKey = "currentResume"
)

var (
	ErrNotFound        = errors.New("resume not found")
	ErrTooManyResumes  = fmt.Errorf("at most %d resumes can be stored", MaxResumes)
	ErrContentTooShort = fmt.Errorf("resume content must be at least %d characters", MinContentLength)
	ErrNameRequired    = errors.New("resume name is required")
)

// Record is one stored resume. The record at index 0 of the collection is the
// default.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	FileSize    int64     `json:"fileSizeBytes,omitempty"`
	ParseMethod string    `json:"parseMethod,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Manager persists the resume collection in a Store.
type Manager struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewManager builds a Manager over the given store.
func NewManager(s store.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}

	m := &Manager{store: s, logger: log, now: time.Now}
	m.newID = func() string {
		return "resume_" + strconv.FormatInt(m.now().UnixNano(), 36)
	}

	return m
}

// List returns the stored resumes in order, default first. An empty store
// yields an empty slice, not an error.
func (m *Manager) List(ctx context.Context) ([]Record, error) {
	var records []Record
	err := store.GetJSON(ctx, m.store, resumesKey, &records)
	if errors.Is(err, store.ErrNotFound) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Default returns the default resume, or nil when none is stored.
func (m *Manager) Default(ctx context.Context) (*Record, error) {
	records, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	return &records[0], nil
}

// Add stores a new resume. ID and upload time are filled in; the first
// resume ever added becomes the default, later ones append behind it.
func (m *Manager) Add(ctx context.Context, record Record) (*Record, error) {
	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return nil, ErrNameRequired
	}

	record.Content = strings.TrimSpace(record.Content)
	if utf8.RuneCountInString(record.Content) < MinContentLength {
		return nil, ErrContentTooShort
	}

	records, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(records) >= MaxResumes {
		return nil, ErrTooManyResumes
	}

	record.ID = m.newID()
	record.UploadedAt = m.now()
	records = append(records, record)

	if err := m.save(ctx, records); err != nil {
		return nil, err
	}

	m.logger.Info("resume added", zap.String("id", record.ID), zap.String("name", record.Name),
		zap.Int("count", len(records)))

	return &record, nil
}

// Remove deletes a resume by id. Removing the default promotes the next
// resume in line.
func (m *Manager) Remove(ctx context.Context, id string) error {
	records, err := m.List(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return ErrNotFound
	}

	records = append(records[:idx], records[idx+1:]...)

	if err := m.save(ctx, records); err != nil {
		return err
	}

	m.logger.Info("resume removed", zap.String("id", id), zap.Int("remaining", len(records)))

	return nil
}

// SetDefault moves the resume with the given id to the front.
func (m *Manager) SetDefault(ctx context.Context, id string) error {
	records, err := m.List(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return ErrNotFound
	}
	if idx == 0 {
		return nil
	}

	record := records[idx]
	records = append(records[:idx], records[idx+1:]...)
	records = append([]Record{record}, records...)

	return m.save(ctx, records)
}

// Rename changes a resume's display name.
func (m *Manager) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}

	records, err := m.List(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return ErrNotFound
	}

	records[idx].Name = name

	return m.save(ctx, records)
}

// Save writes the collection and keeps the legacy single-resume mirror in
// sync: the full default record lives under currentResume.
func (m *Manager) save(ctx context.Context, records []Record) error {
	if err := store.SetJSON(ctx, m.store, resumesKey, records); err != nil {
		return err
	}

	if len(records) == 0 {
		err := m.store.Delete(ctx, legacyKey)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	return store.SetJSON(ctx, m.store, legacyKey, records[0])
}

func indexOf(records []Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
