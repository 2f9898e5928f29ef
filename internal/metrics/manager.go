// Package metrics keeps in-process timings and outcome counters for the
// pipeline stages. Nothing is persisted; a summary is logged on exit.
package metrics

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Manager holds every metric recorded by the process.
type Manager struct {
	mu          sync.RWMutex
	timings     map[string]*TimingMetric
	counters    map[string]*CounterMetric
	successFail map[string]*SuccessFailMetric
	errors      map[string]*ErrorMetric
	active      map[string]time.Time
	keyCounter  uint64
}

var (
	instance *Manager
	once     sync.Once
)

// GetInstance returns the process-wide manager.
func GetInstance() *Manager {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates an empty manager.
func New() *Manager {
	return &Manager{
		timings:     make(map[string]*TimingMetric),
		counters:    make(map[string]*CounterMetric),
		successFail: make(map[string]*SuccessFailMetric),
		errors:      make(map[string]*ErrorMetric),
		active:      make(map[string]time.Time),
	}
}

func buildPath(topic, function string) string {
	if function == "" {
		return topic
	}
	return topic + "/" + function
}

// StartTiming begins timing an operation and returns the key for EndTiming.
func (m *Manager) StartTiming(topic, function string) string {
	counter := atomic.AddUint64(&m.keyCounter, 1)
	key := fmt.Sprintf("%s#%d", buildPath(topic, function), counter)

	m.mu.Lock()
	m.active[key] = time.Now()
	m.mu.Unlock()

	return key
}

// EndTiming completes a timing started with StartTiming. Unknown keys are ignored.
func (m *Manager) EndTiming(key string) {
	m.mu.Lock()
	start, ok := m.active[key]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.active, key)
	m.mu.Unlock()

	path := key
	if idx := strings.LastIndex(key, "#"); idx >= 0 {
		path = key[:idx]
	}
	m.RecordDuration(path, "", time.Since(start))
}

// RecordDuration records a duration directly.
func (m *Manager) RecordDuration(topic, function string, d time.Duration) {
	path := buildPath(topic, function)

	m.mu.Lock()
	metric, ok := m.timings[path]
	if !ok {
		metric = &TimingMetric{Min: d, Max: d}
		m.timings[path] = metric
	}
	m.mu.Unlock()

	metric.mu.Lock()
	defer metric.mu.Unlock()
	metric.Count++
	metric.Total += d
	metric.Last = d
	metric.Min = min(metric.Min, d)
	metric.Max = max(metric.Max, d)
}

// AddCounter adds delta to a counter.
func (m *Manager) AddCounter(topic, function string, delta int64) {
	path := buildPath(topic, function)

	m.mu.Lock()
	metric, ok := m.counters[path]
	if !ok {
		metric = &CounterMetric{}
		m.counters[path] = metric
	}
	m.mu.Unlock()

	metric.mu.Lock()
	metric.Value += delta
	metric.Last = time.Now()
	metric.mu.Unlock()
}

// RecordSuccess counts a successful operation.
func (m *Manager) RecordSuccess(topic, function string) {
	metric := m.outcome(buildPath(topic, function))
	metric.mu.Lock()
	metric.Success++
	metric.mu.Unlock()
}

// RecordFailure counts a failed operation.
func (m *Manager) RecordFailure(topic, function, reason string) {
	metric := m.outcome(buildPath(topic, function))
	metric.mu.Lock()
	metric.Failure++
	metric.LastFailure = reason
	metric.mu.Unlock()
}

func (m *Manager) outcome(path string) *SuccessFailMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	metric, ok := m.successFail[path]
	if !ok {
		metric = &SuccessFailMetric{}
		m.successFail[path] = metric
	}
	return metric
}

// RecordError counts an error of the given kind.
func (m *Manager) RecordError(topic, function, kind, msg string) {
	path := buildPath(topic, function)

	m.mu.Lock()
	metric, ok := m.errors[path]
	if !ok {
		metric = &ErrorMetric{ByKind: make(map[string]int64)}
		m.errors[path] = metric
	}
	m.mu.Unlock()

	metric.mu.Lock()
	metric.ByKind[kind]++
	metric.Last = msg
	metric.mu.Unlock()
}

// Snapshot returns a copy of every metric sorted by path then type.
func (m *Manager) Snapshot() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Snapshot
	for path, t := range m.timings {
		t.mu.Lock()
		out = append(out, Snapshot{Path: path, Type: TypeTiming, Count: t.Count,
			Total: t.Total, Min: t.Min, Max: t.Max, Last: t.Last})
		t.mu.Unlock()
	}
	for path, c := range m.counters {
		c.mu.Lock()
		out = append(out, Snapshot{Path: path, Type: TypeCounter, Count: c.Value})
		c.mu.Unlock()
	}
	for path, s := range m.successFail {
		s.mu.Lock()
		out = append(out, Snapshot{Path: path, Type: TypeSuccessFail, Count: s.Success,
			Failures: s.Failure, LastFailure: s.LastFailure})
		s.mu.Unlock()
	}
	for path, e := range m.errors {
		e.mu.Lock()
		var total int64
		for _, n := range e.ByKind {
			total += n
		}
		out = append(out, Snapshot{Path: path, Type: TypeError, Count: total, ByKind: maps.Clone(e.ByKind)})
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Reset drops every recorded metric.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings = make(map[string]*TimingMetric)
	m.counters = make(map[string]*CounterMetric)
	m.successFail = make(map[string]*SuccessFailMetric)
	m.errors = make(map[string]*ErrorMetric)
	m.active = make(map[string]time.Time)
}
