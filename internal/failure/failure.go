// Package failure defines the error kinds shared by the extract and
// transcribe stages.
package failure

import (
	"errors"
	"fmt"
)

// Kind categorizes a pipeline failure.
type Kind string

const (
	KindUnknown        Kind = "unknown"
	KindDecode         Kind = "decode"          // source or clip audio missing, corrupt or unsupported
	KindWrite          Kind = "write"           // output clip could not be written
	KindAmbiguousAudio Kind = "ambiguous_audio" // recognizer found no interpretable speech
	KindService        Kind = "service"         // transport or API failure talking to the recognizer
	KindInvalidWindow  Kind = "invalid_window"  // start/end offsets outside the source
)

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrDecode         = errors.New("decode error")
	ErrWrite          = errors.New("write error")
	ErrAmbiguousAudio = errors.New("ambiguous audio")
	ErrService        = errors.New("service error")
	ErrInvalidWindow  = errors.New("invalid window")
)

var sentinels = map[Kind]error{
	KindDecode:         ErrDecode,
	KindWrite:          ErrWrite,
	KindAmbiguousAudio: ErrAmbiguousAudio,
	KindService:        ErrService,
	KindInvalidWindow:  ErrInvalidWindow,
}

// Stage names used in errors and log lines.
const (
	StageExtract    = "extract"
	StageTranscribe = "transcribe"
)

// Error is a tagged pipeline error.
type Error struct {
	Kind  Kind
	Stage string // "extract" or "transcribe"
	Path  string // file the stage was working on, if any
	Err   error
}

// New builds a tagged error. err may be nil.
func New(kind Kind, stage, path string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Path: path, Err: err}
}

// Errorf builds a tagged error with a formatted cause.
func Errorf(kind Kind, stage, path, format string, args ...interface{}) *Error {
	return New(kind, stage, path, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// StageOf returns the stage of the first *Error in err's chain, or "".
func StageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}
