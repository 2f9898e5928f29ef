package audio

import (
	"testing"
	"time"
)

func TestWindowValidate(t *testing.T) {
	total := 10 * time.Second

	tests := []struct {
		name    string
		w       Window
		wantErr bool
	}{
		{"whole", WindowMs(0, 10000), false},
		{"empty", WindowMs(4000, 4000), false},
		{"inside", WindowMs(105, 9000), false},
		{"negative start", WindowMs(-1, 100), true},
		{"reversed", WindowMs(5000, 4000), true},
		{"past end", WindowMs(0, 10001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate(total)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.w, err, tt.wantErr)
			}
		})
	}
}

func TestWindowMs(t *testing.T) {
	w := WindowMs(1*60*1000+45*1000, 1*60*1000+55*1000)
	if w.Start != time.Minute+45*time.Second {
		t.Errorf("Start = %v", w.Start)
	}
	if w.Len() != 10*time.Second {
		t.Errorf("Len = %v, want 10s", w.Len())
	}
	if w.String() != "1m45s-1m55s" {
		t.Errorf("String = %q", w.String())
	}
}

func TestToMono(t *testing.T) {
	stereo := []int16{100, 300, -200, -400, 32767, 32767}
	got := toMono(stereo, 2)
	want := []int16{200, -300, 32767}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}

	mono := []int16{1, 2, 3}
	if out := toMono(mono, 1); len(out) != 3 {
		t.Errorf("mono input should pass through")
	}
}

func TestFloatToInt16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{1.5, 32767},
		{-1.5, -32768},
		{0.5, 16384},
	}
	for _, tt := range tests {
		if got := floatToInt16(tt.in); got != tt.want {
			t.Errorf("floatToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOpusPacketSamples(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
		want   int
	}{
		{"empty", nil, 0},
		{"silk nb 10ms", []byte{0 << 3}, 480},
		{"silk wb 20ms", []byte{9 << 3}, 960},
		{"silk mb 60ms", []byte{7 << 3}, 2880},
		{"hybrid fb 10ms", []byte{14 << 3}, 480},
		{"celt fb 2.5ms", []byte{28 << 3}, 120},
		{"celt wb 20ms two frames", []byte{23<<3 | 1}, 1920},
		{"celt fb 5ms code 3 x4", []byte{29<<3 | 3, 4}, 960},
		{"code 3 missing count", []byte{29<<3 | 3}, 0},
		{"capped at 120ms", []byte{3<<3 | 3, 3}, maxFrameSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := opusPacketSamples(tt.packet); got != tt.want {
				t.Errorf("opusPacketSamples(%v) = %d, want %d", tt.packet, got, tt.want)
			}
		})
	}
}

func TestPacketPCMKeepsSilence(t *testing.T) {
	// A 20ms SILK packet of digital silence decodes to an all-zero buffer
	silent := make([]byte, maxFrameSize*2)
	n := opusPacketSamples([]byte{9 << 3})

	got := packetPCM(silent, n)
	if len(got) != 960 {
		t.Fatalf("len = %d, want 960", len(got))
	}
	for i, s := range got {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0", i, s)
		}
	}

	// Trailing silence after real samples is kept too
	buf := make([]byte, maxFrameSize*2)
	buf[0], buf[1] = 0x01, 0x00
	buf[2], buf[3] = 0xff, 0xff
	got = packetPCM(buf, 480)
	if len(got) != 480 || got[0] != 1 || got[1] != -1 || got[479] != 0 {
		t.Errorf("packetPCM = len %d, head %v", len(got), got[:2])
	}

	if got := packetPCM(make([]byte, 10), 480); len(got) != 5 {
		t.Errorf("short buffer len = %d, want 5", len(got))
	}
}

func TestBufferFromPCM(t *testing.T) {
	pcm := make([]int16, 8000*2)
	for i := range pcm {
		pcm[i] = int16(i % 100)
	}
	buf := bufferFromPCM(pcm, 2, 8000, "audio/ogg")

	if buf.Frames() != 8000 {
		t.Fatalf("Frames = %d, want 8000", buf.Frames())
	}
	if buf.Duration() != time.Second {
		t.Errorf("Duration = %v, want 1s", buf.Duration())
	}

	from, to := buf.FrameRange(WindowMs(250, 2000))
	if from != 2000 || to != 8000 {
		t.Errorf("FrameRange = [%d, %d), want [2000, 8000)", from, to)
	}

	out := buf.PCM16(WindowMs(0, 500))
	if len(out) != 4000*2 {
		t.Fatalf("PCM16 len = %d, want %d", len(out), 4000*2)
	}
	for i := 0; i < 200; i++ {
		if d := int(out[i]) - int(pcm[i]); d < -1 || d > 1 {
			t.Fatalf("sample %d = %d, want ~%d", i, out[i], pcm[i])
		}
	}
}
