package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported LLM providers.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
	ProviderMock     = "mock"
)

// OptIn is a flag that is on only for the exact value "1".
type OptIn bool

func (f *OptIn) Decode(value string) error {
	*f = value == "1"
	return nil
}

// OptOut is a flag that is off only for the exact value "0".
type OptOut bool

func (f *OptOut) Decode(value string) error {
	*f = value != "0"
	return nil
}

// Config holds all service configuration.
type Config struct {
	// LLM
	OpenAIAPIKey   string        `envconfig:"OPENAI_API_KEY"`
	LLMProvider    string        `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMModel       string        `envconfig:"LLM_MODEL" default:"gpt-3.5-turbo"`
	LLMBaseURL     string        `envconfig:"LLM_BASE_URL"`
	LLMTimeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	LLMMaxAttempts int           `envconfig:"LLM_MAX_ATTEMPTS" default:"1"`
	LLMRetryDelay  time.Duration `envconfig:"LLM_RETRY_DELAY" default:"1s"`

	UseInspirationSites OptIn `envconfig:"USE_INSPIRATION_SITES" default:"1"`

	// Speech
	EnableTTS OptOut `envconfig:"ENABLE_TTS" default:"1"`
	TTSMode   string `envconfig:"TTS_MODE" default:"data_url"`
	TTSModel  string `envconfig:"TTS_MODEL" default:"tts-1"`
	TTSVoice  string `envconfig:"TTS_VOICE" default:"alloy"`
	AudioDir  string `envconfig:"AUDIO_DIR" default:"static/audio"`

	// HTTP
	StaticDir      string        `envconfig:"STATIC_DIR"`
	ServerAddr     string        `envconfig:"SERVER_ADDR" default:":8080"`
	FrontendOrigin string        `envconfig:"FRONTEND_ORIGIN" default:"*"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"180s"`
	MetricsEnabled bool          `envconfig:"METRICS_ENABLED" default:"true"`

	// Logging
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
}

// Load reads configuration from the environment. When envFile is set it is
// loaded first; a missing file is ignored and real environment variables
// always win over values from the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.TTSMode = strings.ToLower(strings.TrimSpace(cfg.TTSMode))
	return &cfg, nil
}

// Validate checks that the selected provider and speech mode are usable.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is openai")
		}
	case ProviderDeepSeek:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is deepseek")
		}
		if c.LLMBaseURL == "" {
			return fmt.Errorf("LLM_BASE_URL is required when LLM_PROVIDER is deepseek")
		}
	case ProviderOllama, ProviderMock:
	default:
		return fmt.Errorf("invalid LLM_PROVIDER: %s (must be openai, deepseek, ollama or mock)", c.LLMProvider)
	}

	if c.LLMModel == "" && c.LLMProvider != ProviderMock {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.LLMMaxAttempts < 1 {
		return fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1, got %d", c.LLMMaxAttempts)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}

	switch c.TTSMode {
	case "data_url":
	case "file":
		if c.EnableTTS && c.AudioDir == "" {
			return fmt.Errorf("AUDIO_DIR is required when TTS_MODE is file")
		}
	default:
		return fmt.Errorf("invalid TTS_MODE: %s (must be data_url or file)", c.TTSMode)
	}
	return nil
}

// TTSAvailable reports whether speech can be synthesized with this config.
func (c *Config) TTSAvailable() bool {
	return bool(c.EnableTTS) && c.OpenAIAPIKey != ""
}
