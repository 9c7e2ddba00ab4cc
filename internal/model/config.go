package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the complete service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Dispatch  DispatchConfig  `yaml:"dispatch" mapstructure:"dispatch"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Throttle  ThrottleConfig  `yaml:"throttle" mapstructure:"throttle"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"` // Must outlast a full 100-line batch
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"` // 0 = unlimited
	TrustProxy      bool          `yaml:"trust_proxy" mapstructure:"trust_proxy"`         // Key rate limits by X-Forwarded-For
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LLMConfig configures the inference provider
type LLMConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // groq, openai, anthropic, ollama, gemini
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-call bound, expiry is an inference failure
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy   string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// DispatchConfig bounds fan-out to the provider
type DispatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// RateLimitConfig configures the inbound fixed-window limiter
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Max     int           `yaml:"max" mapstructure:"max"`
	Window  time.Duration `yaml:"window" mapstructure:"window"`
}

// ThrottleConfig paces outbound provider calls; zero rate disables it
type ThrottleConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// DefaultConfig returns the reference deployment settings
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    10 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		LLM: LLMConfig{
			Provider:    "groq",
			Model:       "llama3-8b-8192",
			Timeout:     30 * time.Second,
			Temperature: 0.7,
			MaxTokens:   500,
		},
		Dispatch: DispatchConfig{
			Concurrency: 3,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Max:     20,
			Window:  time.Minute,
		},
		Throttle: ThrottleConfig{
			RequestsPerSecond: 0,
			Burst:             3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// ErrMissingAPIKey is returned when a remote provider has no credential
var ErrMissingAPIKey = errors.New("missing API key for inference provider")

// Validate checks the configuration before the service starts
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Dispatch.Concurrency <= 0 {
		return fmt.Errorf("dispatch concurrency must be positive, got %d", c.Dispatch.Concurrency)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requires positive max and window (max=%d, window=%v)", c.RateLimit.Max, c.RateLimit.Window)
	}
	if c.LLM.RequiresAPIKey() && c.LLM.APIKey == "" {
		return fmt.Errorf("%w (provider %q)", ErrMissingAPIKey, c.LLM.Provider)
	}
	return nil
}

// RequiresAPIKey reports whether the configured provider needs a credential
func (c LLMConfig) RequiresAPIKey() bool {
	return strings.ToLower(c.Provider) != "ollama"
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.LLM.APIKey != "" {
		c.LLM.APIKey = "********"
	}
	return c
}
