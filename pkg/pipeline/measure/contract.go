package measure

import "time"

// Measure collects the metrics of every step of the pipeline runs it
// observes.
type Measure interface {
	// AddMetric returns the metric of a step, creating it on first use.
	AddMetric(name string) Metric
	// GetMetric returns the metric of a step, or nil.
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric holds the timings of one step over every run.
type Metric interface {
	AddDuration(elapsed time.Duration)
	// AddWait records the time between the end of parent and the start of
	// the step.
	AddWait(parent string, wait time.Duration)
	Runs() int64
	AVGDuration() time.Duration
	MaxDuration() time.Duration
	Waits() map[string]Wait
	SetTotalDuration(total time.Duration)
	GetTotalDuration() time.Duration
}
