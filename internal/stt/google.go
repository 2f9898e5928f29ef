package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	. "github.com/roelfdiedericks/clipscribe/internal/logging"
)

const defaultGoogleBaseURL = "https://speech.googleapis.com"

// GoogleProvider implements STT using Google Cloud Speech-to-Text API.
type GoogleProvider struct {
	config GoogleConfig
	client *http.Client
}

type googleRecognizeRequest struct {
	Config googleRecognitionConfig `json:"config"`
	Audio  googleRecognitionAudio  `json:"audio"`
}

type googleRecognitionConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz,omitempty"`
	AudioChannelCount          int    `json:"audioChannelCount,omitempty"`
	LanguageCode               string `json:"languageCode"`
	Model                      string `json:"model,omitempty"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

type googleRecognitionAudio struct {
	Content string `json:"content"`
}

type googleRecognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// NewGoogleProvider creates a new Google Cloud STT provider.
// A missing API key is reported when Transcribe is called, so the
// extract stage can still run without credentials.
func NewGoogleProvider(cfg GoogleConfig, client *http.Client) (*GoogleProvider, error) {
	if cfg.APIKey == "" {
		L_warn("stt: google API key not configured (set GOOGLE_API_KEY)")
	}

	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGoogleBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid google base URL: %w", err)
	}
	if client == nil {
		client = &http.Client{}
	}

	L_debug("stt: google provider initialized", "language", cfg.LanguageCode, "model", cfg.Model)

	return &GoogleProvider{
		config: cfg,
		client: client,
	}, nil
}

// Transcribe converts a WAV clip to text using Google Cloud Speech-to-Text.
// The clip is sent as base64 LINEAR16 in one synchronous recognize call.
func (g *GoogleProvider) Transcribe(ctx context.Context, filePath string) (string, error) {
	L_debug("stt: google transcribing", "file", filePath)

	clip, err := LoadClip(filePath)
	if err != nil {
		return "", err
	}

	if g.config.APIKey == "" {
		return "", serviceError(g.Name(), filePath, fmt.Errorf("API key not configured"))
	}

	reqBody := googleRecognizeRequest{
		Config: googleRecognitionConfig{
			Encoding:                   "LINEAR16",
			SampleRateHertz:            clip.SampleRate,
			AudioChannelCount:          clip.Channels,
			LanguageCode:               g.config.LanguageCode,
			Model:                      g.config.Model,
			EnableAutomaticPunctuation: true,
		},
		Audio: googleRecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(clip.Data),
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", serviceError(g.Name(), filePath, fmt.Errorf("marshal request: %w", err))
	}

	endpoint := strings.TrimRight(g.config.BaseURL, "/") + "/v1/speech:recognize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", serviceError(g.Name(), filePath, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	// Header, not ?key=, so transport errors carrying the URL never include it
	req.Header.Set("X-Goog-Api-Key", g.config.APIKey)

	L_debug("stt: sending to google", "sampleRate", clip.SampleRate, "channels", clip.Channels, "language", g.config.LanguageCode)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", serviceError(g.Name(), filePath, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", serviceError(g.Name(), filePath, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		L_debug("stt: google error body", "status", resp.StatusCode, "body", string(body))

		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
			return "", serviceError(g.Name(), filePath, fmt.Errorf("API error (status %d): %s", resp.StatusCode, errResp.Error.Message))
		}
		return "", serviceError(g.Name(), filePath, fmt.Errorf("API error: status %d", resp.StatusCode))
	}

	var result googleRecognizeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", serviceError(g.Name(), filePath, fmt.Errorf("parse response: %w", err))
	}

	// Best alternative of each result, in order
	var transcripts []string
	for _, r := range result.Results {
		if len(r.Alternatives) > 0 {
			if t := strings.TrimSpace(r.Alternatives[0].Transcript); t != "" {
				transcripts = append(transcripts, t)
			}
		}
	}

	if len(transcripts) == 0 {
		return "", ambiguousAudio(g.Name(), filePath)
	}

	transcript := strings.Join(transcripts, " ")
	L_debug("stt: google transcription complete", "length", len(transcript))

	return transcript, nil
}

// Name returns the provider name.
func (g *GoogleProvider) Name() string {
	return ProviderGoogle
}

// Close releases any resources (none for HTTP client).
func (g *GoogleProvider) Close() error {
	return nil
}
