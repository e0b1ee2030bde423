package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"OPENAI_API_KEY", "LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "LLM_TIMEOUT",
	"LLM_MAX_ATTEMPTS", "LLM_RETRY_DELAY", "USE_INSPIRATION_SITES", "ENABLE_TTS",
	"TTS_MODE", "TTS_MODEL", "TTS_VOICE", "AUDIO_DIR", "STATIC_DIR", "SERVER_ADDR",
	"FRONTEND_ORIGIN", "REQUEST_TIMEOUT", "METRICS_ENABLED", "LOG_LEVEL", "LOG_ENCODING",
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
		assert.Equal(t, "gpt-3.5-turbo", cfg.LLMModel)
		assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
		assert.Equal(t, 1, cfg.LLMMaxAttempts)
		assert.Equal(t, time.Second, cfg.LLMRetryDelay)
		assert.True(t, bool(cfg.UseInspirationSites))
		assert.True(t, bool(cfg.EnableTTS))
		assert.Equal(t, "data_url", cfg.TTSMode)
		assert.Equal(t, "tts-1", cfg.TTSModel)
		assert.Equal(t, "alloy", cfg.TTSVoice)
		assert.Equal(t, "static/audio", cfg.AudioDir)
		assert.Equal(t, ":8080", cfg.ServerAddr)
		assert.Equal(t, "*", cfg.FrontendOrigin)
		assert.Equal(t, 180*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.MetricsEnabled)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogEncoding)
	})

	t.Run("custom values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", " Ollama ")
		t.Setenv("LLM_MODEL", "llama3")
		t.Setenv("LLM_MAX_ATTEMPTS", "3")
		t.Setenv("USE_INSPIRATION_SITES", "0")
		t.Setenv("TTS_MODE", "FILE")
		t.Setenv("REQUEST_TIMEOUT", "2m")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, ProviderOllama, cfg.LLMProvider)
		assert.Equal(t, "llama3", cfg.LLMModel)
		assert.Equal(t, 3, cfg.LLMMaxAttempts)
		assert.False(t, bool(cfg.UseInspirationSites))
		assert.Equal(t, "file", cfg.TTSMode)
		assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	})

	t.Run("env file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("OPENAI_API_KEY=sk-file\nLLM_MODEL=gpt-4o-mini\n"), 0o600))
		t.Setenv("LLM_MODEL", "from-env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "sk-file", cfg.OpenAIAPIKey)
		assert.Equal(t, "from-env", cfg.LLMModel)
	})

	t.Run("missing env file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
		assert.NoError(t, err)
	})

	t.Run("flags follow exact values", func(t *testing.T) {
		tests := []struct {
			value       string
			inspiration bool
			tts         bool
		}{
			{"1", true, true},
			{"0", false, false},
			{"", false, true},
			{"true", false, true},
			{"yes", false, true},
			{"false", false, true},
		}
		for _, tt := range tests {
			clearEnv(t)
			t.Setenv("USE_INSPIRATION_SITES", tt.value)
			t.Setenv("ENABLE_TTS", tt.value)

			cfg, err := Load("")
			require.NoError(t, err, tt.value)
			assert.Equal(t, tt.inspiration, bool(cfg.UseInspirationSites), "USE_INSPIRATION_SITES=%q", tt.value)
			assert.Equal(t, tt.tts, bool(cfg.EnableTTS), "ENABLE_TTS=%q", tt.value)
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_TIMEOUT", "soon")

		_, err := Load("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "LLM_TIMEOUT")
	})

	t.Run("invalid integer", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_MAX_ATTEMPTS", "many")

		_, err := Load("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "LLM_MAX_ATTEMPTS")
	})
}

func validConfig() *Config {
	return &Config{
		OpenAIAPIKey:   "sk-test",
		LLMProvider:    ProviderOpenAI,
		LLMModel:       "gpt-3.5-turbo",
		LLMTimeout:     time.Minute,
		LLMMaxAttempts: 1,
		EnableTTS:      true,
		TTSMode:        "data_url",
		AudioDir:       "static/audio",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"openai without key", func(c *Config) { c.OpenAIAPIKey = "" }, "OPENAI_API_KEY"},
		{"deepseek without base url", func(c *Config) { c.LLMProvider = ProviderDeepSeek }, "LLM_BASE_URL"},
		{"unknown provider", func(c *Config) { c.LLMProvider = "bard" }, "LLM_PROVIDER"},
		{"missing model", func(c *Config) { c.LLMModel = "" }, "LLM_MODEL"},
		{"zero attempts", func(c *Config) { c.LLMMaxAttempts = 0 }, "LLM_MAX_ATTEMPTS"},
		{"zero timeout", func(c *Config) { c.LLMTimeout = 0 }, "LLM_TIMEOUT"},
		{"unknown tts mode", func(c *Config) { c.TTSMode = "wav" }, "TTS_MODE"},
		{"file mode without dir", func(c *Config) { c.TTSMode = "file"; c.AudioDir = "" }, "AUDIO_DIR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("ollama and mock need no key", func(t *testing.T) {
		for _, p := range []string{ProviderOllama, ProviderMock} {
			cfg := validConfig()
			cfg.OpenAIAPIKey = ""
			cfg.LLMProvider = p
			assert.NoError(t, cfg.Validate(), p)
		}
	})
}

func TestConfig_TTSAvailable(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.TTSAvailable())

	cfg.OpenAIAPIKey = ""
	assert.False(t, cfg.TTSAvailable())

	cfg.OpenAIAPIKey = "sk-test"
	cfg.EnableTTS = false
	assert.False(t, cfg.TTSAvailable())
}
