package llm

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(`The "Great Wall" is visible from space`)

	if !strings.Contains(prompt, `Statement: "The "Great Wall" is visible from space"`) {
		t.Errorf("Claim not embedded verbatim:\n%s", prompt)
	}
	for _, want := range []string{"Verdict: [TRUE/FALSE]", "Confidence: [High/Medium/Low]", "Reasoning:", "Known sources:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{"groq", "groq", false},
		{"GROQ", "groq", false},
		{"openai", "openai", false},
		{"anthropic", "anthropic", false},
		{"claude", "anthropic", false},
		{"ollama", "ollama", false},
		{"gemini", "gemini", false},
		{"google", "gemini", false},
		{"", "", true},
		{"mistral", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			provider, err := NewProvider(Config{Provider: tt.provider, APIKey: "test-key", Model: "m"})
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for provider %q", tt.provider)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider(%q) failed: %v", tt.provider, err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Expected name %s, got %s", tt.wantName, provider.Name())
			}
		})
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.DefaultConfig().LLM)

	if cfg.Provider != "groq" || cfg.Model != "llama3-8b-8192" {
		t.Errorf("Unexpected provider/model: %s/%s", cfg.Provider, cfg.Model)
	}
	if cfg.Temperature != 0.7 || cfg.MaxTokens != 500 {
		t.Errorf("Unexpected sampling params: %v/%d", cfg.Temperature, cfg.MaxTokens)
	}
	if cfg.timeout() != 30*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.timeout())
	}
}

func TestConfigDefaultsForZeroValues(t *testing.T) {
	var cfg Config
	if cfg.timeout() != 30*time.Second {
		t.Errorf("Expected default timeout, got %v", cfg.timeout())
	}
	if cfg.maxTokens() != 500 {
		t.Errorf("Expected default max tokens, got %d", cfg.maxTokens())
	}
}

func TestInferenceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &InferenceError{Provider: "groq", Err: cause}

	if err.Error() != "groq API error: connection refused" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected InferenceError to unwrap to its cause")
	}
	if err.Kind() != model.KindInference {
		t.Errorf("Expected KindInference, got %s", err.Kind())
	}
}
