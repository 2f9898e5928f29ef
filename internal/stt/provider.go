// Package stt provides speech-to-text transcription for audio clips.
package stt

import "context"

// Provider is the interface for STT implementations.
type Provider interface {
	// Transcribe converts an audio clip to text.
	// filePath must be a 16-bit PCM WAV clip.
	// Fails with failure.ErrDecode when the clip cannot be read,
	// failure.ErrAmbiguousAudio when no speech was recognized and
	// failure.ErrService when the remote call fails.
	Transcribe(ctx context.Context, filePath string) (string, error)

	// Name returns the provider name (e.g., "google", "openai")
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}
