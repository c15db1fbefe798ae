// Package ai normalizes the heterogeneous AI provider contracts into one
// Provider interface and adds retries and tolerant response parsing on top.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/winkovo0818/boss-copilot/internal/store"
)

const configKey = "aiConfig"

// ErrNotConfigured signals that no usable AI configuration exists. Callers
// treat it differently from transient failures: the match engine degrades to
// the local scorer, the greeting generator surfaces it to the user.
var ErrNotConfigured = errors.New("ai service is not configured")

// Config selects and authenticates a provider. It carries no validation of
// its own; providers reject what they cannot use.
type Config struct {
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseURL"`
	Model    string `json:"model"`
}

// LoadConfig reads the stored configuration. A missing entry is not an error;
// it returns (nil, nil) and the caller decides how to degrade.
func LoadConfig(ctx context.Context, s store.Store) (*Config, error) {
	var cfg Config
	err := store.GetJSON(ctx, s, configKey, &cfg)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig persists the configuration, overwriting any previous one.
func SaveConfig(ctx context.Context, s store.Store, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	return store.SetJSON(ctx, s, configKey, cfg)
}

// CallOptions tune a single completion. Scoring calls run cold (0.3) with
// room for a JSON verdict; greeting calls run warmer (0.7) with room for
// three styles of prose.
type CallOptions struct {
	Temperature float32
	MaxTokens   int
}

// Provider is the single capability every AI vendor variant implements.
type Provider interface {
	Complete(ctx context.Context, prompt string, opts CallOptions) (string, error)
}

// StatusError is a non-2xx provider response. The body is kept verbatim so
// users can see what the vendor actually said.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai api call failed (%d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}
