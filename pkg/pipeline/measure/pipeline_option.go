package measure

import (
	"time"

	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.StartStep.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_ []*model.StepInfo, step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepStart(parent, step *model.StepInfo, wait time.Duration) error {
	pm.AddMetric(step.Name).AddWait(parent.Name, wait)

	return nil
}

func (pm *pipelineMeasure) OnStepDone(step *model.StepInfo, elapsed time.Duration) error {
	pm.AddMetric(step.Name).AddDuration(elapsed)

	return nil
}

func (pm *pipelineMeasure) Finish(total time.Duration) error {
	pm.AddMetric(model.EndStep.Name).SetTotalDuration(total)

	return nil
}

// PipelineMeasure returns a feature recording the step timings of every run
// into measure.
func PipelineMeasure(measure Measure) model.Feature {
	return &pipelineMeasure{measure}
}
