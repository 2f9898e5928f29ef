package metrics

import (
	"sync"
	"time"
)

// MetricType represents the type of metric
type MetricType string

const (
	TypeTiming      MetricType = "timing"
	TypeCounter     MetricType = "counter"
	TypeSuccessFail MetricType = "success_fail"
	TypeError       MetricType = "error"
)

// TimingMetric tracks timing statistics
type TimingMetric struct {
	mu    sync.Mutex
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Last  time.Duration
}

// CounterMetric tracks incrementing values
type CounterMetric struct {
	mu    sync.Mutex
	Value int64
	Last  time.Time
}

// SuccessFailMetric tracks operation outcomes
type SuccessFailMetric struct {
	mu          sync.Mutex
	Success     int64
	Failure     int64
	LastFailure string
}

// ErrorMetric counts errors by kind
type ErrorMetric struct {
	mu     sync.Mutex
	ByKind map[string]int64
	Last   string
}

// Snapshot is a point-in-time copy of one metric.
type Snapshot struct {
	Path  string     `json:"path"`
	Type  MetricType `json:"type"`
	Count int64      `json:"count"`

	// timing
	Total time.Duration `json:"total,omitempty"`
	Min   time.Duration `json:"min,omitempty"`
	Max   time.Duration `json:"max,omitempty"`
	Last  time.Duration `json:"last,omitempty"`

	// success_fail
	Failures    int64  `json:"failures,omitempty"`
	LastFailure string `json:"lastFailure,omitempty"`

	// error
	ByKind map[string]int64 `json:"byKind,omitempty"`
}

// Avg returns the mean duration of a timing snapshot.
func (s Snapshot) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}
