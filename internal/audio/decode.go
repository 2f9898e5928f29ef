package audio

import (
	"context"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
)

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

func decodeMP3(f *os.File) (beep.StreamSeekCloser, beep.Format, error)    { return mp3.Decode(f) }
func decodeWAV(f *os.File) (beep.StreamSeekCloser, beep.Format, error)    { return wav.Decode(f) }
func decodeFLAC(f *os.File) (beep.StreamSeekCloser, beep.Format, error)   { return flac.Decode(f) }
func decodeVorbis(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }

// Native decoders keyed by detected MIME type.
var decoders = []struct {
	mime   string
	decode decodeFunc
}{
	{"audio/mpeg", decodeMP3},
	{"audio/wav", decodeWAV},
	{"audio/flac", decodeFLAC},
	{"audio/ogg", decodeVorbis},
}

// Decode reads a whole recording into memory. The container is sniffed
// from magic bytes, not the file extension. Formats without a native
// decoder are converted with ffmpeg when it is installed.
func Decode(ctx context.Context, path string) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect format: %w", err)
	}
	L_debug("audio: detected format", "file", path, "mime", mtype.String(), "ext", mtype.Extension())

	if isOgg(mtype) && isOggOpus(path) {
		if ffmpegAvailable() {
			L_debug("audio: using ffmpeg for OGG/Opus", "file", path)
			return decodeWithFFmpeg(ctx, path)
		}
		return decodeOggOpusSafe(path)
	}

	for _, d := range decoders {
		if mtype.Is(d.mime) || (d.mime == "audio/ogg" && isOgg(mtype)) {
			buf, err := decodeNative(path, mtype.String(), d.decode)
			if err != nil && ffmpegAvailable() {
				L_debug("audio: native decode failed, retrying with ffmpeg", "file", path, "error", err)
				return decodeWithFFmpeg(ctx, path)
			}
			return buf, err
		}
	}

	if ffmpegAvailable() {
		L_debug("audio: using ffmpeg for non-native format", "file", path, "mime", mtype.String())
		return decodeWithFFmpeg(ctx, path)
	}

	return nil, fmt.Errorf("unsupported audio format %s (install ffmpeg for other formats)", mtype.String())
}

func decodeNative(path, mime string, decode decodeFunc) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}

	s, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", mime, err)
	}
	// The stream owns f from here
	defer s.Close()

	buf := newBuffer(format, mime)
	buf.samples.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", mime, err)
	}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", path)
	}

	L_debug("audio: decoded", "file", path, "sampleRate", buf.SampleRate(), "channels", buf.Channels(),
		"frames", buf.Frames(), "duration", buf.Duration())
	return buf, nil
}

func isOgg(m *mimetype.MIME) bool {
	return m.Is("audio/ogg") || m.Is("application/ogg") || m.Is("video/ogg") || m.Is("audio/opus")
}

// bufferFromPCM wraps interleaved 16-bit samples in a Buffer.
func bufferFromPCM(pcm []int16, channels, sampleRate int, mime string) *Buffer {
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: channels,
		Precision:   2,
	}
	buf := newBuffer(format, mime)

	frames := len(pcm) / channels
	pos := 0
	buf.samples.Append(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= frames {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < frames {
			left := int16ToFloat(pcm[pos*channels])
			right := left
			if channels > 1 {
				right = int16ToFloat(pcm[pos*channels+1])
			}
			samples[n] = [2]float64{left, right}
			n++
			pos++
		}
		return n, true
	}))
	return buf
}
