// Package audio decodes source recordings and extracts time-bounded clips
// as 16-bit PCM WAV files.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
)

// Buffer is a fully decoded recording held in memory.
type Buffer struct {
	Format   beep.Format
	MIME     string // detected source container, e.g. "audio/mpeg"
	channels int
	samples  *beep.Buffer
}

func newBuffer(format beep.Format, mime string) *Buffer {
	channels := format.NumChannels
	if channels < 1 || channels > 2 {
		channels = 2
	}
	return &Buffer{
		Format:   format,
		MIME:     mime,
		channels: channels,
		samples:  beep.NewBuffer(format),
	}
}

// Frames returns the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	return b.samples.Len()
}

// Channels returns the source channel count (1 or 2).
func (b *Buffer) Channels() int {
	return b.channels
}

// SampleRate returns the source sample rate in Hz.
func (b *Buffer) SampleRate() int {
	return int(b.Format.SampleRate)
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	return b.Format.SampleRate.D(b.Frames())
}

// FrameRange converts a window to [from, to) frame offsets at the
// buffer's sample rate.
func (b *Buffer) FrameRange(w Window) (int, int) {
	from := b.Format.SampleRate.N(w.Start)
	to := b.Format.SampleRate.N(w.End)
	if to > b.Frames() {
		to = b.Frames()
	}
	if from > to {
		from = to
	}
	return from, to
}

// PCM16 returns the frames covered by w as interleaved 16-bit samples
// with Channels() channels.
func (b *Buffer) PCM16(w Window) []int16 {
	from, to := b.FrameRange(w)
	s := b.samples.Streamer(from, to)

	pcm := make([]int16, 0, (to-from)*b.channels)
	chunk := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(chunk)
		for i := 0; i < n; i++ {
			pcm = append(pcm, floatToInt16(chunk[i][0]))
			if b.channels == 2 {
				pcm = append(pcm, floatToInt16(chunk[i][1]))
			}
		}
		if !ok {
			break
		}
	}
	return pcm
}

// Window is a [Start, End) range within a recording.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// WindowMs builds a window from millisecond offsets.
func WindowMs(startMs, endMs int64) Window {
	return Window{
		Start: time.Duration(startMs) * time.Millisecond,
		End:   time.Duration(endMs) * time.Millisecond,
	}
}

// Len returns End - Start.
func (w Window) Len() time.Duration {
	return w.End - w.Start
}

// Validate checks 0 <= Start <= End <= total.
func (w Window) Validate(total time.Duration) error {
	switch {
	case w.Start < 0:
		return fmt.Errorf("start %v is negative", w.Start)
	case w.End < w.Start:
		return fmt.Errorf("end %v is before start %v", w.End, w.Start)
	case w.End > total:
		return fmt.Errorf("end %v is past the end of the source (%v)", w.End, total)
	}
	return nil
}

func (w Window) String() string {
	return fmt.Sprintf("%v-%v", w.Start, w.End)
}

// Clip describes an exported WAV clip.
type Clip struct {
	Path       string
	SampleRate int
	Channels   int
	Frames     int
	Duration   time.Duration
}

func durationOf(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
