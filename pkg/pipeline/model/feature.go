package model

import "time"

// Feature is a pluggable pipeline feature, such as timing or drawing.
type Feature interface {
	// New initialises the feature. It runs once when the pipeline is created.
	New() error
	// PrepareStep runs before the pipeline starts, once per step in execution
	// order, and once for EndStep.
	PrepareStep(parents []*StepInfo, step *StepInfo) error
	// OnStepStart runs before a step, once per parent, with the time elapsed
	// since the parent finished.
	OnStepStart(parent, step *StepInfo, wait time.Duration) error
	// OnStepDone runs after a step succeeded.
	OnStepDone(step *StepInfo, elapsed time.Duration) error
	// Finish runs after the last step.
	Finish(total time.Duration) error
}
