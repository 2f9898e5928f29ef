package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestHasFmtVerb(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"plain message", false},
		{"value is %d", true},
		{"Transcribed Text: %s", true},
		{"100%% done", false},
		{"trailing %", false},
		{"error: %v", true},
	}

	for _, tt := range tests {
		if got := hasFmtVerb(tt.msg); got != tt.want {
			t.Errorf("hasFmtVerb(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestLogMsgFormats(t *testing.T) {
	var buf bytes.Buffer
	Init(&Settings{Level: LevelInfo, Output: &buf})

	L_info("Transcribed Text: %s", "hello there")
	L_info("run: done", "run", "abc")
	L_debug("hidden at info")
	SetLevel(LevelDebug)
	L_debug("shown at debug", "n", 3)

	out := buf.String()
	for _, want := range []string{"Transcribed Text: hello there", "run: done", "run=abc", "shown at debug", "n=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden at info") {
		t.Errorf("debug line logged at info level:\n%s", out)
	}
}
