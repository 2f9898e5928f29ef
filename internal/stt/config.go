package stt

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	. "github.com/roelfdiedericks/clipscribe/internal/logging"
)

// Provider names
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// Config holds STT configuration.
type Config struct {
	Provider       string           `json:"provider" yaml:"provider" toml:"provider"`                   // "google", "openai", "groq"
	TimeoutSeconds int              `json:"timeoutSeconds" yaml:"timeoutSeconds" toml:"timeoutSeconds"` // 0 = no client timeout
	Google         GoogleConfig     `json:"google" yaml:"google" toml:"google"`
	OpenAI         WhisperAPIConfig `json:"openai" yaml:"openai" toml:"openai"`
	Groq           WhisperAPIConfig `json:"groq" yaml:"groq" toml:"groq"`
}

// GoogleConfig holds Google Cloud STT configuration.
type GoogleConfig struct {
	APIKey       string `json:"apiKey" yaml:"apiKey" toml:"apiKey"`                   // Simple API key
	LanguageCode string `json:"languageCode" yaml:"languageCode" toml:"languageCode"` // e.g., "en-US", "en-ZA"
	Model        string `json:"model" yaml:"model" toml:"model"`                      // "default", "latest_long", ...
	BaseURL      string `json:"baseURL,omitempty" yaml:"baseURL,omitempty" toml:"baseURL,omitempty"`
}

// WhisperAPIConfig holds configuration for OpenAI-compatible Whisper APIs.
type WhisperAPIConfig struct {
	APIKey   string `json:"apiKey" yaml:"apiKey" toml:"apiKey"`
	Model    string `json:"model" yaml:"model" toml:"model"`          // "whisper-1", "whisper-large-v3", ...
	Language string `json:"language" yaml:"language" toml:"language"` // ISO-639-1, empty = auto
	BaseURL  string `json:"baseURL,omitempty" yaml:"baseURL,omitempty" toml:"baseURL,omitempty"`
}

// DefaultConfig returns the provider defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGoogle,
		Google: GoogleConfig{
			LanguageCode: "en-US",
			Model:        "default",
			BaseURL:      defaultGoogleBaseURL,
		},
		OpenAI: WhisperAPIConfig{
			Model:   "whisper-1",
			BaseURL: defaultOpenAIBaseURL,
		},
		Groq: WhisperAPIConfig{
			Model:   "whisper-large-v3",
			BaseURL: defaultGroqBaseURL,
		},
	}
}

// SetLanguage applies a BCP-47 language code to every provider.
// Whisper APIs take only the primary subtag ("en-US" -> "en").
func (c *Config) SetLanguage(code string) {
	if code == "" {
		return
	}
	c.Google.LanguageCode = code
	primary := strings.ToLower(strings.SplitN(code, "-", 2)[0])
	c.OpenAI.Language = primary
	c.Groq.Language = primary
}

func (c Config) httpClient() *http.Client {
	return &http.Client{Timeout: time.Duration(c.TimeoutSeconds) * time.Second}
}

// New creates the provider selected by cfg.Provider.
func New(cfg Config) (Provider, error) {
	name := cfg.Provider
	if name == "" {
		name = ProviderGoogle
	}

	var (
		p   Provider
		err error
	)
	switch name {
	case ProviderGoogle:
		p, err = NewGoogleProvider(cfg.Google, cfg.httpClient())
	case ProviderOpenAI:
		p, err = NewWhisperAPIProvider(ProviderOpenAI, cfg.OpenAI, cfg.httpClient())
	case ProviderGroq:
		p, err = NewWhisperAPIProvider(ProviderGroq, cfg.Groq, cfg.httpClient())
	default:
		return nil, fmt.Errorf("stt: unknown provider: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("stt: failed to initialize %s: %w", name, err)
	}

	L_debug("stt: provider ready", "provider", p.Name())
	return p, nil
}
