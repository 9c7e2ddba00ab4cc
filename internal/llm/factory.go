package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a new inference provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "groq":
		return NewGroqProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "gemini", "google":
		return NewGeminiProvider(config)

	case "":
		return nil, fmt.Errorf("no inference provider configured")

	default:
		return nil, fmt.Errorf("unknown inference provider: %s (supported: groq, openai, anthropic, ollama, gemini)", config.Provider)
	}
}
