package audio

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavFormatPCM = 1
)

// encodeWAV writes interleaved 16-bit samples as a PCM WAV stream.
// The encoder seeks back to patch chunk sizes, so w must be seekable.
func encodeWAV(w io.WriteSeeker, pcm []int16, sampleRate, channels int) error {
	data := make([]int, len(pcm))
	for i, s := range pcm {
		data[i] = int(s)
	}

	buffer := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, channels, wavFormatPCM)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
