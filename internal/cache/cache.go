// Package cache provides a TTL-bounded, content-addressed cache for analysis
// verdicts. Entries are keyed by a fingerprint of the job posting plus the
// resume, so a changed posting or resume never serves a stale verdict.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/job"
	"github.com/winkovo0818/boss-copilot/internal/store"
)

const (
	// DefaultTTL bounds how long a verdict stays servable.
	DefaultTTL = time.Hour

	keyPrefix          = "cache_"
	fingerprintMaxLen  = 16
	fingerprintSampled = 100
)

type entry struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Cache wraps a Store with expiry bookkeeping.
type Cache struct {
	store  store.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New builds a Cache over the given store. A non-positive ttl falls back to
// DefaultTTL.
func New(s store.Store, ttl time.Duration, log *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Cache{store: s, ttl: ttl, logger: log, now: time.Now}
}

// Fingerprint derives the cache key material from a posting and resume. Only
// the first 100 characters of the description and resume participate, so
// trailing boilerplate edits do not churn the cache. The resume head follows
// the description head with no separator and sampling counts UTF-16 code
// units, keeping keys identical to those written by the browser extension.
func Fingerprint(posting *job.Posting, resumeContent string) string {
	var title, company, description string
	if posting != nil {
		title = posting.Title
		company = posting.Company
		description = posting.Description
	}

	units := utf16.Encode([]rune(title + "-" + company + "-"))
	units = append(units, headUnits(description)...)
	units = append(units, headUnits(resumeContent)...)

	return hashUnits(units)
}

// Lookup returns the cached payload for the fingerprint, or ok=false on a
// miss. Expired entries are evicted on the way out.
func (c *Cache) Lookup(ctx context.Context, fingerprint string) (json.RawMessage, bool, error) {
	key := keyPrefix + fingerprint

	var e entry
	err := store.GetJSON(ctx, c.store, key, &e)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		// A corrupt entry is treated as a miss, not a failure.
		c.logger.Warn("dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.store.Delete(ctx, key)
		return nil, false, nil
	}

	if c.expired(e.Timestamp) {
		c.logger.Debug("cache entry expired", zap.String("fingerprint", fingerprint))
		if err := c.store.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("evict expired entry: %w", err)
		}
		return nil, false, nil
	}

	c.logger.Debug("cache hit", zap.String("fingerprint", fingerprint))

	return e.Data, true, nil
}

// Store saves the payload under the fingerprint, overwriting any previous
// entry.
func (c *Cache) Store(ctx context.Context, fingerprint string, data json.RawMessage) error {
	e := entry{
		Timestamp: c.now().UnixMilli(),
		Data:      data,
	}

	return store.SetJSON(ctx, c.store, keyPrefix+fingerprint, &e)
}

// PurgeExpired removes every expired entry and returns how many it dropped.
func (c *Cache) PurgeExpired(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, keyPrefix)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, key := range keys {
		var e entry
		err := store.GetJSON(ctx, c.store, key, &e)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil || c.expired(e.Timestamp) {
			if delErr := c.store.Delete(ctx, key); delErr != nil && !errors.Is(delErr, store.ErrNotFound) {
				return purged, delErr
			}
			purged++
		}
	}

	if purged > 0 {
		c.logger.Info("purged expired cache entries", zap.Int("count", purged))
	}

	return purged, nil
}

// Clear removes every cache entry regardless of age and returns the count.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, keyPrefix)
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
			return 0, err
		}
	}

	return len(keys), nil
}

func (c *Cache) expired(timestampMilli int64) bool {
	age := c.now().Sub(time.UnixMilli(timestampMilli))
	return age >= c.ttl
}

func headUnits(s string) []uint16 {
	units := utf16.Encode([]rune(s))
	if len(units) > fingerprintSampled {
		units = units[:fingerprintSampled]
	}
	return units
}

// hashUnits folds the UTF-16 code units into a compact base-36 token with
// 32-bit wraparound, so fingerprints stay stable across releases for data
// written by older versions.
func hashUnits(units []uint16) string {
	var hash int32
	for _, unit := range units {
		hash = hash<<5 - hash + int32(unit)
	}

	value := int64(hash)
	if value < 0 {
		value = -value
	}

	token := strconv.FormatInt(value, 36)
	if len(token) > fingerprintMaxLen {
		token = token[:fingerprintMaxLen]
	}

	return strings.ToLower(token)
}
