package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("Expected anthropic-version %s, got %s", anthropicVersion, r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.MaxTokens != 500 {
			t.Errorf("Expected max_tokens 500, got %d", req.MaxTokens)
		}

		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"model": "claude-3-5-haiku-20241022",
			"content": [{"type": "text", "text": "Verdict: FALSE"}, {"type": "text", "text": "\nConfidence: Low"}],
			"stop_reason": "end_turn"
		}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, MaxTokens: 500})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	text, err := provider.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Verdict: FALSE\nConfidence: Low" {
		t.Errorf("Unexpected completion: %q", text)
	}
}

func TestAnthropicProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "bad-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), "prompt")
	var inferr *InferenceError
	if !errors.As(err, &inferr) {
		t.Fatalf("Expected *InferenceError, got %v", err)
	}
	if !strings.Contains(err.Error(), "authentication_error") {
		t.Errorf("Expected error type in message, got %v", err)
	}
}

func TestAnthropicProvider_Complete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"msg_1","content":[]}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for empty content, got nil")
	}
}

func TestNewAnthropicProvider_Defaults(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: "http://example.com/"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.Model() != anthropicDefaultModel {
		t.Errorf("Expected default model %s, got %s", anthropicDefaultModel, provider.Model())
	}
	if provider.baseURL != "http://example.com" {
		t.Errorf("Expected trailing slash trimmed, got %s", provider.baseURL)
	}
}
