package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

// Provider defines the interface for inference providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model used for completions
	Model() string

	// Complete sends a single-message prompt and returns the raw completion text.
	// Failures are returned as *InferenceError. Complete never retries.
	Complete(ctx context.Context, prompt string) (string, error)

	// Ping checks that the provider is configured and reachable
	Ping(ctx context.Context) error
}

// Config holds provider configuration
type Config struct {
	// Provider name: "groq", "openai", "anthropic", "ollama", "gemini"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for remote providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout bounds a single completion call
	Timeout time.Duration

	// Fixed sampling parameters
	Temperature float32
	MaxTokens   int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the reference deployment settings
func DefaultConfig() Config {
	return Config{
		Provider:    "groq",
		Model:       "llama3-8b-8192",
		Timeout:     30 * time.Second,
		Temperature: 0.7,
		MaxTokens:   500,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		Temperature: modelConfig.Temperature,
		MaxTokens:   modelConfig.MaxTokens,
		HTTPProxy:   modelConfig.HTTPProxy,
		HTTPSProxy:  modelConfig.HTTPSProxy,
		NoProxy:     modelConfig.NoProxy,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultConfig().Timeout
	}
	return c.Timeout
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultConfig().MaxTokens
	}
	return c.MaxTokens
}

// InferenceError reports a failed completion call
type InferenceError struct {
	Provider string
	Err      error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Kind reports the item failure kind for a failed completion
func (e *InferenceError) Kind() model.ErrorKind {
	return model.KindInference
}

// promptTemplate is the fact-check instruction block. extract.Parse depends on
// the Verdict/Confidence/Reasoning/Known sources layout requested here.
const promptTemplate = `
You are a professional fact-checking assistant. Analyze the following statement and provide a clear, structured response.

Statement: "%s"

Please provide your analysis in this exact format:

Verdict: [TRUE/FALSE]
Confidence: [High/Medium/Low]
Reasoning: [Brief, clear explanation in 2-3 sentences]

Known sources: [List 1-2 credible sources if available]

Keep your response concise and professional.
`

// BuildPrompt embeds the claim verbatim in the fact-check template
func BuildPrompt(claim string) string {
	return fmt.Sprintf(promptTemplate, claim)
}
