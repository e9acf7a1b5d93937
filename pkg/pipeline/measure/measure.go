package measure

import (
	"sort"
	"sync"
)

// DefaultMeasure keeps metrics in memory. It is safe for concurrent use.
type DefaultMeasure struct {
	mu    sync.Mutex
	steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		steps: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mt, ok := m.steps[name]; ok {
		return mt
	}
	mt := newDefaultMetric()
	m.steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.steps[name]
}

// AllMetrics returns a copy of the metrics keyed by step name.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make(map[string]Metric, len(m.steps))
	for name, mt := range m.steps {
		res[name] = mt
	}

	return res
}

// names returns the step names of msr, sorted.
func names(msr Measure) []string {
	all := msr.AllMetrics()
	res := make([]string, 0, len(all))
	for name := range all {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}

var _ Measure = (*DefaultMeasure)(nil)
