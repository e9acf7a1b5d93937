package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-stpipe/pkg/pipeline/measure"
	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parents []*model.StepInfo, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	for _, parent := range parents {
		err := pd.AddLink(parent.Name, step.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (pd *pipelineDrawer) OnStepStart(_, _ *model.StepInfo, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) OnStepDone(_ *model.StepInfo, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish(total time.Duration) error {
	err := pd.SetTotalTime(model.EndStep.Name, total)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer returns a feature drawing the pipeline once it finished.
// measure may be nil. When set, it must be the measure of a feature added
// before this one.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.Feature {
	return &pipelineDrawer{drawer, measure}
}
