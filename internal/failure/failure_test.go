package failure

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestErrorIsSentinel(t *testing.T) {
	tests := []struct {
		kind Kind
		want error
	}{
		{KindDecode, ErrDecode},
		{KindWrite, ErrWrite},
		{KindAmbiguousAudio, ErrAmbiguousAudio},
		{KindService, ErrService},
		{KindInvalidWindow, ErrInvalidWindow},
	}

	all := []error{ErrDecode, ErrWrite, ErrAmbiguousAudio, ErrService, ErrInvalidWindow}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", New(tt.kind, StageExtract, "in.mp3", nil))
			for _, s := range all {
				got := errors.Is(err, s)
				if got != (s == tt.want) {
					t.Errorf("errors.Is(%v, %v) = %v", err, s, got)
				}
			}
			if KindOf(err) != tt.kind {
				t.Errorf("KindOf = %q, want %q", KindOf(err), tt.kind)
			}
			if StageOf(err) != StageExtract {
				t.Errorf("StageOf = %q, want %q", StageOf(err), StageExtract)
			}
		})
	}
}

func TestErrorUnwrapKeepsCause(t *testing.T) {
	err := New(KindDecode, StageExtract, "missing.mp3", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected cause to be reachable, got %v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode match")
	}
	msg := err.Error()
	for _, part := range []string{"extract", "decode", "missing.mp3"} {
		if !strings.Contains(msg, part) {
			t.Errorf("error %q missing %q", msg, part)
		}
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != "" {
		t.Errorf("KindOf(nil) should be empty")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Errorf("KindOf(plain) should be unknown")
	}
	err := Errorf(KindService, StageTranscribe, "", "status %d", 500)
	if KindOf(err) != KindService {
		t.Errorf("KindOf = %q", KindOf(err))
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
