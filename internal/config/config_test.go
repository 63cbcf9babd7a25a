package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearRelayEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "NODE_ENV", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadRelayDefaults(t *testing.T) {
	clearRelayEnv(t)
	t.Setenv("BUDGET_RELAY_OPENAI_APIKEY", "sk-test")

	cfg, err := LoadRelay("")
	require.NoError(t, err)

	assert.Equal(t, "1000", cfg.Port)
	assert.Equal(t, ":1000", cfg.Addr())
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-5.1-mini", cfg.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 60*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 5*time.Minute, cfg.HealthInterval)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadRelayLegacyEnv(t *testing.T) {
	clearRelayEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("NODE_ENV", "Development")
	t.Setenv("OPENAI_API_KEY", "sk-legacy")

	cfg, err := LoadRelay("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sk-legacy", cfg.OpenAI.APIKey)
}

func TestLoadRelayPrefixedEnvWins(t *testing.T) {
	clearRelayEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("BUDGET_RELAY_PORT", "9090")
	t.Setenv("BUDGET_RELAY_PROVIDER", "ollama")
	t.Setenv("BUDGET_RELAY_OLLAMA_MODEL", "qwen2.5:7b")
	t.Setenv("BUDGET_RELAY_HEALTHINTERVAL", "90s")
	t.Setenv("BUDGET_RELAY_RATELIMIT", "5")
	t.Setenv("BUDGET_RELAY_ALLOWEDORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadRelay("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "qwen2.5:7b", cfg.Ollama.Model)
	assert.Equal(t, 90*time.Second, cfg.HealthInterval)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadRelayFromFile(t *testing.T) {
	clearRelayEnv(t)
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
provider: ollama
ollama:
  url: http://gpu-box:11434
  model: mistral
`), 0o644))

	cfg, err := LoadRelay(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.URL)
	assert.Equal(t, "mistral", cfg.Ollama.Model)
}

func TestLoadRelayMissingFileUsesDefaults(t *testing.T) {
	clearRelayEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk")

	_, err := LoadRelay(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
}

func TestLoadRelayMissingAPIKey(t *testing.T) {
	clearRelayEnv(t)

	_, err := LoadRelay("")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestRelayValidate(t *testing.T) {
	cfg := DefaultRelay()
	cfg.OpenAI.APIKey = "sk"
	require.NoError(t, cfg.Validate())

	cfg.Port = "http"
	cfg.Provider = "anthropic"
	cfg.RateLimit = 0
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "port")
	assert.ErrorContains(t, err, "unknown llm provider")
	assert.ErrorContains(t, err, "ratelimit")
	assert.ErrorContains(t, err, "loud")
}

func TestLoadTracker(t *testing.T) {
	t.Setenv("BUDGET_DB", "/tmp/b.db")
	t.Setenv("BUDGET_RELAYURL", "http://relay:1000")
	t.Setenv("BUDGET_LANGUAGE", "uz")

	cfg, err := LoadTracker("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/b.db", cfg.DB)
	assert.Equal(t, "http://relay:1000", cfg.RelayURL)
	assert.Equal(t, "uz", cfg.Language)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 120*time.Second, cfg.RelayTimeout)
}

func TestTrackerValidate(t *testing.T) {
	cfg := DefaultTracker()
	require.NoError(t, cfg.Validate())

	cfg.DB = ""
	cfg.RelayURL = "not a url"
	assert.Error(t, cfg.Validate())
}
