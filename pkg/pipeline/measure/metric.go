package measure

import (
	"sync"
	"time"
)

// Wait accumulates the time a step waited after one of its parents.
type Wait struct {
	Total time.Duration
	Count int64
}

// Average returns the rounded mean wait.
func (w Wait) Average() time.Duration {
	if w.Count == 0 {
		return 0
	}

	return round(w.Total / time.Duration(w.Count))
}

// DefaultMetric keeps the timings of a step in memory.
type DefaultMetric struct {
	mu      sync.Mutex
	waits   map[string]Wait
	elapsed time.Duration
	longest time.Duration
	runs    int64
	total   time.Duration
}

func newDefaultMetric() *DefaultMetric {
	return &DefaultMetric{waits: make(map[string]Wait)}
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.runs++
	mt.elapsed += elapsed
	if elapsed > mt.longest {
		mt.longest = elapsed
	}
}

func (mt *DefaultMetric) AddWait(parent string, wait time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	w := mt.waits[parent]
	w.Total += wait
	w.Count++
	mt.waits[parent] = w
}

// Runs returns how many durations were added.
func (mt *DefaultMetric) Runs() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.runs
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.runs == 0 {
		return 0
	}

	return round(mt.elapsed / time.Duration(mt.runs))
}

func (mt *DefaultMetric) MaxDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return round(mt.longest)
}

// Waits returns a copy of the waits, keyed by parent step.
func (mt *DefaultMetric) Waits() map[string]Wait {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]Wait, len(mt.waits))
	for parent, w := range mt.waits {
		res[parent] = w
	}

	return res
}

func (mt *DefaultMetric) SetTotalDuration(total time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total = total
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

// round keeps three significant units at most.
func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		return d.Round(time.Hour)
	case d > time.Minute:
		return d.Round(time.Minute)
	case d > time.Second:
		return d.Round(time.Second)
	case d > time.Millisecond:
		return d.Round(time.Millisecond)
	case d > time.Microsecond:
		return d.Round(time.Microsecond)
	default:
		return d
	}
}

var _ Metric = (*DefaultMetric)(nil)
