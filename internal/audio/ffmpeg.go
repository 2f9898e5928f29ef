package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	. "github.com/roelfdiedericks/clipscribe/internal/metrics"
)

// ffmpegAvailable checks if ffmpeg is installed.
func ffmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// decodeWithFFmpeg converts any ffmpeg-readable input to a temporary
// 16-bit PCM WAV (at most two channels) and decodes that.
func decodeWithFFmpeg(ctx context.Context, inputPath string) (*Buffer, error) {
	MetricInc("audio", "ffmpeg_fallback")

	tmpFile, err := os.CreateTemp("", "clipscribe-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	// #nosec G204 - inputPath is the configured source file
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", inputPath,
		"-vn",
		"-ac", "2",
		"-f", "wav",
		"-acodec", "pcm_s16le",
		"-y",
		tmpPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		L_debug("audio: ffmpeg output", "output", string(output))
		return nil, fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	return decodeNative(tmpPath, "audio/wav", decodeWAV)
}
