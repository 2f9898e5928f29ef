package metrics

import (
	"time"

	. "github.com/roelfdiedericks/clipscribe/internal/logging"
)

// Global functions for dot-import usage

// MetricStart begins timing an operation
func MetricStart(topic, function string) string {
	return GetInstance().StartTiming(topic, function)
}

// MetricEnd completes timing an operation
func MetricEnd(key string) {
	GetInstance().EndTiming(key)
}

// MetricDuration records a duration directly
func MetricDuration(topic, function string, d time.Duration) {
	GetInstance().RecordDuration(topic, function, d)
}

// MetricInc increments a counter by 1
func MetricInc(topic, function string) {
	GetInstance().AddCounter(topic, function, 1)
}

// MetricAdd adds a value to a counter
func MetricAdd(topic, function string, delta int64) {
	GetInstance().AddCounter(topic, function, delta)
}

// MetricSuccess records a successful operation
func MetricSuccess(topic, operation string) {
	GetInstance().RecordSuccess(topic, operation)
}

// MetricFailWithReason records a failed operation
func MetricFailWithReason(topic, operation, reason string) {
	GetInstance().RecordFailure(topic, operation, reason)
}

// MetricError records an error by kind
func MetricError(topic, operation, kind, msg string) {
	GetInstance().RecordError(topic, operation, kind, msg)
}

// LogSummary writes every metric at debug level.
func LogSummary() {
	for _, s := range GetInstance().Snapshot() {
		switch s.Type {
		case TypeTiming:
			L_debug("metric", "path", s.Path, "count", s.Count, "avg", s.Avg().Round(time.Millisecond), "max", s.Max.Round(time.Millisecond))
		case TypeSuccessFail:
			L_debug("metric", "path", s.Path, "success", s.Count, "failure", s.Failures)
		case TypeError:
			L_debug("metric", "path", s.Path, "errors", s.ByKind)
		default:
			L_debug("metric", "path", s.Path, "value", s.Count)
		}
	}
}
