// api/metrics/recorder.go

package metrics

import (
	"sync"

	"go.uber.org/atomic"
)

// Recorder receives cache instrumentation events. The cache layer takes a
// Recorder in its constructor so tests can observe counts without touching
// process-wide state.
type Recorder interface {
	RecordCacheHit(namespace string)
	RecordCacheMiss(namespace string)
	RecordCacheWrite(namespace string)
	RecordCacheEviction(namespace string)
}

// CounterStats is a point-in-time snapshot of one namespace's counters.
type CounterStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Writes    int64 `json:"writes"`
	Evictions int64 `json:"evictions"`
}

// CounterRecorder keeps in-process per-namespace counters.
type CounterRecorder struct {
	mu       sync.RWMutex
	counters map[string]*namespaceCounters
}

type namespaceCounters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	writes    atomic.Int64
	evictions atomic.Int64
}

func NewCounterRecorder() *CounterRecorder {
	return &CounterRecorder{
		counters: make(map[string]*namespaceCounters),
	}
}

func (r *CounterRecorder) namespace(ns string) *namespaceCounters {
	r.mu.RLock()
	c, ok := r.counters[ns]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.counters[ns]; ok {
		return c
	}
	c = &namespaceCounters{}
	r.counters[ns] = c
	return c
}

func (r *CounterRecorder) RecordCacheHit(ns string) {
	r.namespace(ns).hits.Inc()
}

func (r *CounterRecorder) RecordCacheMiss(ns string) {
	r.namespace(ns).misses.Inc()
}

func (r *CounterRecorder) RecordCacheWrite(ns string) {
	r.namespace(ns).writes.Inc()
}

func (r *CounterRecorder) RecordCacheEviction(ns string) {
	r.namespace(ns).evictions.Inc()
}

// Snapshot returns the current counters keyed by namespace.
func (r *CounterRecorder) Snapshot() map[string]CounterStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]CounterStats, len(r.counters))
	for ns, c := range r.counters {
		out[ns] = CounterStats{
			Hits:      c.hits.Load(),
			Misses:    c.misses.Load(),
			Writes:    c.writes.Load(),
			Evictions: c.evictions.Load(),
		}
	}
	return out
}
