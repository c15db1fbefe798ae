package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAICompatible talks to any endpoint exposing the OpenAI chat-completion
// shape: OpenAI itself, Kimi, Zhipu, Qwen, LM Studio and the various relays.
// It is the default provider.
type OpenAICompatible struct {
	HTTPClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewOpenAICompatible builds the default provider from the stored config.
func NewOpenAICompatible(cfg *Config) (*OpenAICompatible, error) {
	if cfg == nil {
		return nil, ErrNotConfigured
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if apiKey == "" || baseURL == "" {
		return nil, fmt.Errorf("%w: api key and base URL are required", ErrNotConfigured)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}

	// Per-attempt transport bound; the gateway deadline caps the sequence.
	return &OpenAICompatible{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts the prompt to {baseURL}/chat/completions and returns the
// first choice's content. Non-2xx responses surface the body verbatim.
func (p *OpenAICompatible) Complete(ctx context.Context, prompt string, opts CallOptions) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
