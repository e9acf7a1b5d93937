package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stpipe/pkg/library"
	"github.com/askiada/go-stpipe/pkg/pipeline"
	"github.com/askiada/go-stpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-stpipe/pkg/pipeline/measure"
	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

func TestRunFeatures(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	pipe, err := pipeline.New("features", pipeline.WithFeatures(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), msr),
	))
	require.NoError(t, err)

	slow := func(context.Context, *library.Library, pipeline.Params) error {
		time.Sleep(2 * time.Millisecond)

		return nil
	}
	require.NoError(t, pipe.AddStep("first", slow))
	require.NoError(t, pipe.AddStep("second", slow))
	require.NoError(t, pipe.Run(context.Background(), newTestLibrary(t, 2)))

	for _, name := range []string{"first", "second"} {
		metric := msr.GetMetric(name)
		require.NotNil(t, metric, name)
		assert.Equal(t, int64(1), metric.Runs(), name)
		assert.GreaterOrEqual(t, metric.AVGDuration(), 2*time.Millisecond, name)
	}
	assert.Contains(t, msr.GetMetric("second").Waits(), "first")
	assert.Contains(t, msr.GetMetric("first").Waits(), model.StartStep.Name)
	assert.Greater(t, msr.GetMetric(model.EndStep.Name).GetTotalDuration(), time.Duration(0))

	raw, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "strict digraph")
	assert.Contains(t, content, `"start" -> "first"`)
	assert.Contains(t, content, `"first" -> "second"`)
	assert.Contains(t, content, `"second" -> "end"`)
	assert.Contains(t, content, "total: ")
}

type failingFeature struct {
	model.Feature
	failOn string
}

func (f *failingFeature) New() error {
	if f.failOn == "new" {
		return assert.AnError
	}

	return nil
}

func (f *failingFeature) PrepareStep([]*model.StepInfo, *model.StepInfo) error {
	if f.failOn == "prepare" {
		return assert.AnError
	}

	return nil
}

func (f *failingFeature) OnStepStart(_, _ *model.StepInfo, _ time.Duration) error {
	if f.failOn == "start" {
		return assert.AnError
	}

	return nil
}

func (f *failingFeature) OnStepDone(*model.StepInfo, time.Duration) error {
	if f.failOn == "done" {
		return assert.AnError
	}

	return nil
}

func (f *failingFeature) Finish(time.Duration) error {
	if f.failOn == "finish" {
		return assert.AnError
	}

	return nil
}

func TestRunFeatureErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		failOn  string
		newErr  bool
		stepRan bool
	}{
		"new":     {failOn: "new", newErr: true},
		"prepare": {failOn: "prepare"},
		"start":   {failOn: "start"},
		"done":    {failOn: "done", stepRan: true},
		"finish":  {failOn: "finish", stepRan: true},
	}
	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New("features", pipeline.WithFeatures(&failingFeature{failOn: tc.failOn}))
			if tc.newErr {
				require.ErrorIs(t, err, assert.AnError)

				return
			}
			require.NoError(t, err)
			rec := newRecorder()
			require.NoError(t, pipe.AddStep("only", rec.step("only")))

			err = pipe.Run(context.Background(), newTestLibrary(t, 1))
			require.ErrorIs(t, err, assert.AnError)
			if tc.stepRan {
				assert.Equal(t, []string{"only"}, rec.recorded())
			} else {
				assert.Empty(t, rec.recorded())
			}
		})
	}
}
