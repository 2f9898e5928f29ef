package stt

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
	"github.com/roelfdiedericks/clipscribe/internal/failure"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag.
const wavFormatPCM = 1

// Clip is a WAV clip held in memory for upload.
type Clip struct {
	Path       string
	Data       []byte
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// LoadClip reads the whole clip into memory and parses its WAV header.
// It never touches the network, so a missing or malformed clip fails
// before any provider request is made.
func LoadClip(filePath string) (*Clip, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		L_error("stt: cannot read clip", "file", filePath, "error", err)
		return nil, failure.New(failure.KindDecode, failure.StageTranscribe, filePath, err)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		L_error("stt: clip is not a valid WAV file", "file", filePath)
		return nil, failure.Errorf(failure.KindDecode, failure.StageTranscribe, filePath, "not a valid WAV file")
	}
	if dec.WavAudioFormat != wavFormatPCM || dec.BitDepth != 16 {
		L_error("stt: unsupported clip encoding", "file", filePath, "format", dec.WavAudioFormat, "bitDepth", dec.BitDepth)
		return nil, failure.Errorf(failure.KindDecode, failure.StageTranscribe, filePath,
			"unsupported WAV encoding (format %d, %d-bit), want 16-bit PCM", dec.WavAudioFormat, dec.BitDepth)
	}

	dur, err := dec.Duration()
	if err != nil {
		L_error("stt: cannot read clip duration", "file", filePath, "error", err)
		return nil, failure.New(failure.KindDecode, failure.StageTranscribe, filePath, fmt.Errorf("read duration: %w", err))
	}

	clip := &Clip{
		Path:       filePath,
		Data:       data,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Duration:   dur,
	}
	L_debug("stt: clip loaded", "file", filePath, "bytes", len(data), "sampleRate", clip.SampleRate,
		"channels", clip.Channels, "duration", dur)
	return clip, nil
}

// serviceError logs and tags a transport or API failure.
func serviceError(provider, filePath string, err error) error {
	L_error("stt: "+provider+" request failed", "file", filePath, "error", err)
	return failure.New(failure.KindService, failure.StageTranscribe, filePath, fmt.Errorf("%s: %w", provider, err))
}

// ambiguousAudio logs and tags an empty recognition result.
func ambiguousAudio(provider, filePath string) error {
	L_error("stt: could not understand the audio", "provider", provider, "file", filePath)
	return failure.Errorf(failure.KindAmbiguousAudio, failure.StageTranscribe, filePath, "%s returned no transcript", provider)
}
