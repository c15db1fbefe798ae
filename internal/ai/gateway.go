package ai

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/winkovo0818/boss-copilot/internal/logger"
	"github.com/winkovo0818/boss-copilot/internal/retry"
	"go.uber.org/zap"
)

const (
	defaultMaxLogLength = 200

	// defaultTimeout bounds one whole retry sequence, so a hung provider
	// cannot hold the caller for attempts x transport-timeout.
	defaultTimeout = 60 * time.Second
)

// Gateway wraps a Provider with the retry envelope and debug logging. It is
// the only path through which prompts leave the process.
type Gateway struct {
	provider  Provider
	policy    retry.Policy
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int
}

// NewGateway builds a Gateway. A zero policy falls back to 3 attempts with a
// 1s initial delay; a non-positive timeout picks the 60s default for the
// whole retry sequence; maxLogLength bounds prompt/response previews in
// debug logs (0 picks the default).
func NewGateway(provider Provider, policy retry.Policy, timeout time.Duration, maxLogLength int, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Gateway{
		provider:  provider,
		policy:    policy,
		timeout:   timeout,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Complete sends the prompt through the provider, retrying transient
// failures with exponential backoff. The whole sequence runs under the
// gateway deadline; on exhaustion the returned error wraps the last provider
// error.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts CallOptions) (string, error) {
	if g.provider == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.logger.Debug("ai request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, g.maxLogLen)),
		zap.Float32("temperature", opts.Temperature),
		zap.Int("max_tokens", opts.MaxTokens),
	)

	raw, err := retry.Do(ctx, g.policy, g.logger, func(ctx context.Context) (string, error) {
		return g.provider.Complete(ctx, prompt, opts)
	})
	if err != nil {
		return "", err
	}

	g.logger.Debug("ai response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, g.maxLogLen)),
	)

	return raw, nil
}
