package stt

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/roelfdiedericks/clipscribe/internal/failure"
)

// writeTestWAV writes a 16-bit PCM WAV with a 440Hz tone (or silence).
func writeTestWAV(t *testing.T, path string, sampleRate, channels int, dur time.Duration, silent bool) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	frames := int(dur.Seconds() * float64(sampleRate))
	data := make([]int, frames*channels)
	if !silent {
		for i := 0; i < frames; i++ {
			v := int(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
			for ch := 0; ch < channels; ch++ {
				data[i*channels+ch] = v
			}
		}
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestLoadClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWAV(t, path, 16000, 2, 2*time.Second, false)

	clip, err := LoadClip(path)
	if err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	if clip.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", clip.SampleRate)
	}
	if clip.Channels != 2 {
		t.Errorf("Channels = %d, want 2", clip.Channels)
	}
	if clip.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", clip.BitDepth)
	}
	if d := clip.Duration - 2*time.Second; d < -10*time.Millisecond || d > 10*time.Millisecond {
		t.Errorf("Duration = %v, want ~2s", clip.Duration)
	}
	if len(clip.Data) == 0 {
		t.Error("expected clip bytes in memory")
	}
}

func TestLoadClipErrors(t *testing.T) {
	dir := t.TempDir()
	notWAV := filepath.Join(dir, "notes.wav")
	if err := os.WriteFile(notWAV, []byte("definitely not a riff file"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.wav")},
		{"not a wav", notWAV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClip(tt.path)
			if !errors.Is(err, failure.ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
			if failure.StageOf(err) != failure.StageTranscribe {
				t.Errorf("stage = %q, want %q", failure.StageOf(err), failure.StageTranscribe)
			}
		})
	}
}

func TestSetLanguage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetLanguage("en-ZA")
	if cfg.Google.LanguageCode != "en-ZA" {
		t.Errorf("google language = %q", cfg.Google.LanguageCode)
	}
	if cfg.OpenAI.Language != "en" || cfg.Groq.Language != "en" {
		t.Errorf("whisper language = %q/%q, want en", cfg.OpenAI.Language, cfg.Groq.Language)
	}

	cfg.SetLanguage("")
	if cfg.Google.LanguageCode != "en-ZA" {
		t.Errorf("empty code should be ignored")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "vosk"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
