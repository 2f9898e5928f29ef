// Package runner drives one extract-then-transcribe run.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/roelfdiedericks/clipscribe/internal/audio"
	"github.com/roelfdiedericks/clipscribe/internal/failure"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	. "github.com/roelfdiedericks/clipscribe/internal/metrics"
)

// Job describes one run.
type Job struct {
	Input  string
	Output string
	Window audio.Window
}

// Extractor is the clip-producing stage.
type Extractor interface {
	Extract(ctx context.Context, src string, w audio.Window, dst string) (*audio.Clip, error)
}

// Transcriber is the recognition stage.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
	Name() string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID      string
	Clip       *audio.Clip
	Transcript string
}

// Run extracts job.Window from job.Input into job.Output, then transcribes
// the clip. The first failure ends the run and is returned after a summary
// line is logged.
func Run(ctx context.Context, job Job, ex Extractor, tr Transcriber) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	L_info("run: starting", "run", runID, "input", job.Input, "window", job.Window.String(),
		"output", job.Output, "provider", tr.Name())

	key := MetricStart("pipeline", failure.StageExtract)
	clip, err := ex.Extract(ctx, job.Input, job.Window, job.Output)
	MetricEnd(key)
	if err != nil {
		logFailure(runID, err)
		return nil, err
	}
	MetricAdd("audio", "clip_frames", int64(clip.Frames))

	key = MetricStart("pipeline", failure.StageTranscribe)
	text, err := tr.Transcribe(ctx, clip.Path)
	MetricEnd(key)
	if err != nil {
		logFailure(runID, err)
		return nil, err
	}
	MetricSuccess("pipeline", "run")

	L_info("Transcription successful.", "run", runID)
	L_info("Transcribed Text: %s", text)
	L_elapsed(start, "run: done", "run", runID)

	return &Result{
		RunID:      runID,
		Clip:       clip,
		Transcript: text,
	}, nil
}

func logFailure(runID string, err error) {
	kind := string(failure.KindOf(err))
	MetricFailWithReason("pipeline", "run", kind)
	MetricError("pipeline", failure.StageOf(err), kind, err.Error())
	L_error("Error during process", "run", runID, "stage", failure.StageOf(err),
		"kind", string(failure.KindOf(err)), "error", err)
}
