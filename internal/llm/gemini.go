package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/ppiankov/veritas/internal/util"
)

const geminiDefaultModel = "gemini-2.0-flash"

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider backed by the Gemini API
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if config.Model == "" {
		config.Model = geminiDefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: util.NewHTTPClient(config.timeout(), config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the configured model
func (p *GeminiProvider) Model() string {
	return p.config.Model
}

// Ping fetches the configured model's metadata
func (p *GeminiProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.config.Model, nil); err != nil {
		return &InferenceError{Provider: p.Name(), Err: err}
	}
	return nil
}

// Complete generates content for a single user turn
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.timeout())
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.config.Temperature),
		MaxOutputTokens: int32(p.config.maxTokens()),
	})
	if err != nil {
		return "", &InferenceError{Provider: p.Name(), Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &InferenceError{Provider: p.Name(), Err: errors.New("empty response from model")}
	}
	return text, nil
}
