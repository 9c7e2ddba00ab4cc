package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/veritas/internal/model"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Dispatch.Concurrency)
	assert.Equal(t, 20, cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)

	assert.ErrorIs(t, cfg.Validate(), model.ErrMissingAPIKey)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("PORT", "8080")
	t.Setenv("VERITAS_DISPATCH_CONCURRENCY", "5")
	t.Setenv("VERITAS_RATE_LIMIT_WINDOW", "30s")

	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, "gsk-env", cfg.LLM.APIKey)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Dispatch.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("VERITAS_LLM_API_KEY", "explicit")

	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: anthropic
  model: claude-3-5-haiku-20241022
  timeout: 45s
server:
  allowed_origins: ["https://app.example.com"]
`), 0o600))
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-20241022", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "sk-ant-test", cfg.LLM.APIKey)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_VerboseEnablesDebug(t *testing.T) {
	v := newTestViper(t)
	v.Set("verbose", true)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	assert.Equal(t, "google-key", apiKeyFromEnv("gemini"))
	assert.Equal(t, "google-key", apiKeyFromEnv("Google"))
	assert.Empty(t, apiKeyFromEnv("ollama"))
}

func TestWriteReport(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	report := model.NewBatchReport("batch-1", []model.ItemOutcome{
		model.NewSuccess("Sky is blue", model.FactCheckResult{
			Verdict:    model.VerdictTrue,
			Confidence: model.ConfidenceHigh,
			Reasoning:  "Rayleigh scattering.",
			Sources:    []string{"NASA"},
		}, at),
		model.NewFailure(42, model.KindValidation, "Invalid fact format"),
	}, 2)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "batch-1", decoded["batch_id"])
	assert.Len(t, decoded["results"], 2)

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, "yaml"))

	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "batch-1", fromYAML["batch_id"])
	results := fromYAML["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "TRUE", first["verdict"])
	assert.Equal(t, "2024-01-02T03:04:05.000Z", first["timestamp"])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veritas", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Veritas Configuration File"))

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "groq", cfg.LLM.Provider)

	assert.Error(t, writeDefaultConfig(path), "existing file must not be overwritten")
}
