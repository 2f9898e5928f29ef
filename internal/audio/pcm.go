package audio

import (
	"math"

	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	"github.com/zeozeozeo/gomplerate"
)

// floatToInt16 maps a [-1, 1] sample to 16-bit PCM, clipping out-of-range values.
func floatToInt16(v float64) int16 {
	s := math.Round(v * 32767)
	if s > math.MaxInt16 {
		return math.MaxInt16
	}
	if s < math.MinInt16 {
		return math.MinInt16
	}
	return int16(s)
}

func int16ToFloat(s int16) float64 {
	return float64(s) / 32768.0
}

// toMono converts interleaved multi-channel audio to mono by averaging channels.
func toMono(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}

	mono := make([]int16, len(samples)/channels)
	for i := range mono {
		var sum int32
		for ch := 0; ch < channels; ch++ {
			sum += int32(samples[i*channels+ch])
		}
		mono[i] = int16(sum / int32(channels)) // #nosec G115 - safe: average of int16 values
	}
	return mono
}

// resampleInt16 converts interleaved audio from one sample rate to another
// using gomplerate. On failure the input is returned unchanged with ok=false.
func resampleInt16(samples []int16, channels, fromRate, toRate int) ([]int16, bool) {
	if fromRate == toRate {
		return samples, true
	}

	resampler, err := gomplerate.NewResampler(channels, fromRate, toRate)
	if err != nil {
		L_warn("audio: resampler creation failed, keeping source rate", "from", fromRate, "to", toRate, "error", err)
		return samples, false
	}

	return resampler.ResampleInt16(samples), true
}
