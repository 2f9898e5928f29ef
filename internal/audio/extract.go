package audio

import (
	"context"
	"os"
	"time"

	"github.com/roelfdiedericks/clipscribe/internal/failure"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	. "github.com/roelfdiedericks/clipscribe/internal/metrics"
	"github.com/roelfdiedericks/clipscribe/internal/paths"
)

// Options controls the exported clip format.
type Options struct {
	SampleRate int  // output rate in Hz, 0 keeps the source rate
	Mono       bool // average channels down to one
}

// Extractor cuts windows out of recordings and exports them as WAV.
type Extractor struct {
	opts Options
}

// NewExtractor creates an Extractor.
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract decodes src, validates w against its duration and writes the
// frames in [w.Start, w.End) to dst as 16-bit PCM WAV, replacing any
// existing file. Nothing is written unless decoding and validation succeed,
// and a failed write leaves no partial file behind.
func (e *Extractor) Extract(ctx context.Context, src string, w Window, dst string) (*Clip, error) {
	L_debug("audio: extracting", "source", src, "window", w.String(), "output", dst)

	decodeStart := time.Now()
	buf, err := Decode(ctx, src)
	MetricDuration("audio", "decode", time.Since(decodeStart))
	if err != nil {
		L_error("Error extracting audio: cannot decode source", "file", src, "error", err)
		return nil, failure.New(failure.KindDecode, failure.StageExtract, src, err)
	}

	if err := w.Validate(buf.Duration()); err != nil {
		L_error("Error extracting audio: invalid window", "file", src, "window", w.String(), "duration", buf.Duration(), "error", err)
		return nil, failure.New(failure.KindInvalidWindow, failure.StageExtract, src, err)
	}

	pcm := buf.PCM16(w)
	channels := buf.Channels()
	rate := buf.SampleRate()

	if e.opts.Mono && channels > 1 {
		pcm = toMono(pcm, channels)
		channels = 1
	}
	if e.opts.SampleRate > 0 && e.opts.SampleRate != rate {
		if resampled, ok := resampleInt16(pcm, channels, rate, e.opts.SampleRate); ok {
			pcm = resampled
			rate = e.opts.SampleRate
		}
	}

	dst, err = paths.ExpandTilde(dst)
	if err != nil {
		L_error("Error extracting audio: bad output path", "file", dst, "error", err)
		return nil, failure.New(failure.KindWrite, failure.StageExtract, dst, err)
	}

	err = paths.AtomicWriteFunc(dst, 0644, func(f *os.File) error {
		return encodeWAV(f, pcm, rate, channels)
	})
	if err != nil {
		L_error("Error extracting audio: cannot write clip", "file", dst, "error", err)
		return nil, failure.New(failure.KindWrite, failure.StageExtract, dst, err)
	}

	frames := len(pcm) / channels
	clip := &Clip{
		Path:       dst,
		SampleRate: rate,
		Channels:   channels,
		Frames:     frames,
		Duration:   durationOf(frames, rate),
	}

	L_info("Extracted audio saved as %s", dst)
	L_debug("audio: clip details", "sampleRate", rate, "channels", channels, "frames", frames, "duration", clip.Duration)
	return clip, nil
}
