package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pion/opus"
	"github.com/pion/opus/pkg/oggreader"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
)

const (
	opusDecodeRate = 48000 // Opus always decodes at 48kHz
	maxFrameSize   = 5760  // Max Opus frame size (120ms at 48kHz)
)

// isOggOpus reports whether an Ogg file carries an OpusHead stream.
func isOggOpus(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	_, _, err = oggreader.NewWith(file)
	return err == nil
}

// decodeOggOpusSafe wraps decodeOggOpus with panic recovery.
// The pion/opus library can panic on some files.
func decodeOggOpusSafe(path string) (buf *Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			L_warn("audio: opus decoder panicked, recovered", "panic", r)
			err = fmt.Errorf("OGG/Opus decoder panic: %v (install ffmpeg for reliable decoding)", r)
			buf = nil
		}
	}()
	return decodeOggOpus(path)
}

// decodeOggOpus decodes OGG/Opus to mono 16-bit samples at 48kHz using
// pure Go. Every packet contributes exactly the sample count its TOC byte
// declares, so silent or undecodable packets keep the timeline intact.
func decodeOggOpus(path string) (*Buffer, error) {
	L_debug("audio: decoding OGG/Opus", "file", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	ogg, header, err := oggreader.NewWith(file)
	if err != nil {
		return nil, fmt.Errorf("parse OGG container: %w", err)
	}
	L_debug("audio: OGG header", "inputSampleRate", header.SampleRate, "channels", header.Channels, "preSkip", header.PreSkip)

	// pion/opus only decodes single-channel SILK, so output is always mono
	decoder := opus.NewDecoder()
	outBuf := make([]byte, maxFrameSize*2)

	var (
		mono    []int16
		pending []byte
		decoded int
		skipped int
	)
	for {
		segments, _, err := ogg.ParseNextPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse OGG page: %w", err)
		}

		for _, segment := range segments {
			// Lacing: a 255-byte segment continues into the next one
			pending = append(pending, segment...)
			if len(segment) == 255 {
				continue
			}
			packet := pending
			pending = nil

			if len(packet) == 0 || bytes.HasPrefix(packet, []byte("OpusTags")) {
				continue
			}

			n := opusPacketSamples(packet)
			clear(outBuf)
			if _, _, err := decoder.Decode(packet, outBuf); err != nil {
				L_trace("audio: opus packet not decodable, inserting silence", "error", err, "len", len(packet))
				mono = append(mono, make([]int16, n)...)
				skipped++
				continue
			}
			mono = append(mono, packetPCM(outBuf, n)...)
			decoded++
		}
	}

	if decoded == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", path)
	}
	if skipped > 0 {
		L_debug("audio: opus packets replaced with silence", "count", skipped, "decoded", decoded)
	}

	if preSkip := int(header.PreSkip); preSkip > 0 {
		mono = mono[min(preSkip, len(mono)):]
	}

	return bufferFromPCM(mono, 1, opusDecodeRate, "audio/ogg"), nil
}

// Frame sizes in 48kHz samples per configuration group (RFC 6716 section 3.1).
var (
	silkFrameSizes   = [4]int{480, 960, 1920, 2880} // 10, 20, 40, 60 ms
	hybridFrameSizes = [2]int{480, 960}             // 10, 20 ms
	celtFrameSizes   = [4]int{120, 240, 480, 960}   // 2.5, 5, 10, 20 ms
)

// opusPacketSamples returns the per-channel sample count of an Opus packet
// at 48kHz, read from its TOC byte and, for code 3 packets, the frame count byte.
func opusPacketSamples(packet []byte) int {
	if len(packet) == 0 {
		return 0
	}
	toc := packet[0]
	config := int(toc >> 3)

	var frameSize int
	switch {
	case config < 12:
		frameSize = silkFrameSizes[config%4]
	case config < 16:
		frameSize = hybridFrameSizes[config%2]
	default:
		frameSize = celtFrameSizes[config%4]
	}

	frames := 1
	switch toc & 0x03 {
	case 1, 2:
		frames = 2
	case 3:
		if len(packet) < 2 {
			return 0
		}
		frames = int(packet[1] & 0x3f)
	}

	return min(frameSize*frames, maxFrameSize)
}

// packetPCM converts the first n little-endian samples of the decoder
// output, zeros included.
func packetPCM(buf []byte, n int) []int16 {
	n = min(n, len(buf)/2)
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:])) // #nosec G115 - audio sample reinterpretation
	}
	return samples
}
