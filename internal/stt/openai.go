package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultGroqBaseURL   = "https://api.groq.com/openai/v1"
)

// WhisperAPIProvider implements STT against an OpenAI-compatible
// audio/transcriptions endpoint (OpenAI itself, Groq).
type WhisperAPIProvider struct {
	name   string
	config WhisperAPIConfig
	client *openai.Client
}

// NewWhisperAPIProvider creates a Whisper API provider. name selects the
// default model and base URL ("openai" or "groq").
func NewWhisperAPIProvider(name string, cfg WhisperAPIConfig, httpClient *http.Client) (*WhisperAPIProvider, error) {
	if cfg.APIKey == "" {
		L_warn("stt: %s API key not configured (set %s_API_KEY)", name, strings.ToUpper(name))
	}

	switch name {
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = openai.Whisper1
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = defaultOpenAIBaseURL
		}
	case ProviderGroq:
		if cfg.Model == "" {
			cfg.Model = "whisper-large-v3"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = defaultGroqBaseURL
		}
	default:
		return nil, fmt.Errorf("unknown whisper API provider: %s", name)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	L_debug("stt: whisper API provider initialized", "provider", name, "model", cfg.Model)

	return &WhisperAPIProvider{
		name:   name,
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Transcribe uploads the whole clip and returns the recognized text.
func (w *WhisperAPIProvider) Transcribe(ctx context.Context, filePath string) (string, error) {
	L_debug("stt: "+w.name+" transcribing", "file", filePath)

	clip, err := LoadClip(filePath)
	if err != nil {
		return "", err
	}

	if w.config.APIKey == "" {
		return "", serviceError(w.name, filePath, fmt.Errorf("API key not configured"))
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.config.Model,
		FilePath: filepath.Base(filePath),
		Reader:   bytes.NewReader(clip.Data),
		Language: w.config.Language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", serviceError(w.name, filePath, fmt.Errorf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message))
		}
		return "", serviceError(w.name, filePath, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ambiguousAudio(w.name, filePath)
	}

	L_debug("stt: "+w.name+" transcription complete", "length", len(text))
	return text, nil
}

// Name returns the provider name.
func (w *WhisperAPIProvider) Name() string {
	return w.name
}

// Close releases any resources (none for HTTP client).
func (w *WhisperAPIProvider) Close() error {
	return nil
}
