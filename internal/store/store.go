// Package store provides the persistent key-value storage shared by the
// configuration, resume, cache and history components. All values are stored
// as JSON blobs; writes are last-writer-wins with no multi-key atomicity.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a minimal asynchronous key-value contract. Production
// implementations persist to SQLite or Redis; tests use the in-memory one.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns all keys starting with the given prefix. An empty prefix
	// matches everything.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// GetJSON reads the value under key and unmarshals it into target.
func GetJSON(ctx context.Context, s Store, key string, target any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode value for %q: %w", key, err)
	}

	return nil
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}

	return s.Set(ctx, key, data)
}
