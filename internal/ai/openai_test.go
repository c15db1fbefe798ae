package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testConfig(baseURL string) *Config {
	return &Config{APIKey: "sk-test", BaseURL: baseURL, Model: "test-model"}
}

func TestOpenAICompatibleComplete(t *testing.T) {
	var captured chatRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "  {\"score\": 80}  "}}]}`))
	}))
	defer server.Close()

	provider, err := NewOpenAICompatible(testConfig(server.URL + "/v1/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := provider.Complete(context.Background(), "评估这份简历", CallOptions{Temperature: 0.3, MaxTokens: 2000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != `{"score": 80}` {
		t.Fatalf("expected trimmed content, got %q", got)
	}

	if authHeader != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", authHeader)
	}

	if captured.Model != "test-model" || captured.Temperature != 0.3 || captured.MaxTokens != 2000 {
		t.Fatalf("request not faithful to options: %+v", captured)
	}

	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("expected single user message, got %+v", captured.Messages)
	}
}

func TestOpenAICompatibleStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAICompatible(testConfig(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = provider.Complete(context.Background(), "prompt", CallOptions{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}

	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", statusErr.StatusCode)
	}

	if statusErr.Body == "" {
		t.Fatal("expected response body to be preserved")
	}
}

func TestOpenAICompatibleEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	provider, err := NewOpenAICompatible(testConfig(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := provider.Complete(context.Background(), "prompt", CallOptions{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewOpenAICompatibleRejectsMissingCredentials(t *testing.T) {
	for name, cfg := range map[string]*Config{
		"nil":        nil,
		"no key":     {BaseURL: "https://api.example.com"},
		"no baseURL": {APIKey: "sk-test"},
	} {
		if _, err := NewOpenAICompatible(cfg); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("%s: expected ErrNotConfigured, got %v", name, err)
		}
	}
}
