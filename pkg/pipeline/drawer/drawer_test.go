package drawer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-stpipe/pkg/pipeline/measure"
	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

func newChain(t *testing.T, dotFile string) *drawer.DOTDrawer {
	t.Helper()

	d := drawer.NewDOTDrawer(dotFile)
	for _, name := range []string{"start", "step", "end"} {
		require.NoError(t, d.AddStep(name))
	}
	require.NoError(t, d.AddLink("start", "step"))
	require.NoError(t, d.AddLink("step", "end"))

	return d
}

func TestDOTDrawerWrite(t *testing.T) {
	t.Parallel()

	d := newChain(t, "")
	buf := &bytes.Buffer{}
	require.NoError(t, d.Write(buf))
	content := buf.String()
	assert.Contains(t, content, "strict digraph")
	assert.Contains(t, content, `"start" -> "step"`)
	assert.Contains(t, content, `"step" -> "end"`)
	assert.Contains(t, content, `shape="box"`)

	again := &bytes.Buffer{}
	require.NoError(t, d.Write(again))
	assert.Equal(t, content, again.String())
}

func TestDOTDrawerErrors(t *testing.T) {
	t.Parallel()

	d := newChain(t, "")
	require.Error(t, d.AddStep("step"))
	require.Error(t, d.AddLink("step", "unknown"))
	require.Error(t, d.SetTotalTime("unknown", time.Second))

	msr := measure.NewDefaultMeasure()
	msr.AddMetric("unknown")
	require.Error(t, d.AddMeasure(msr))
}

func TestDOTDrawerMeasure(t *testing.T) {
	t.Parallel()

	d := newChain(t, "")
	msr := measure.NewDefaultMeasure()
	msr.AddMetric("step").AddDuration(time.Second)
	msr.AddMetric("step").AddWait("start", 2*time.Millisecond)
	msr.AddMetric("end").SetTotalDuration(3 * time.Second)
	require.NoError(t, d.AddMeasure(msr))

	buf := &bytes.Buffer{}
	require.NoError(t, d.Write(buf))
	content := buf.String()
	assert.Contains(t, content, `<FONT POINT-SIZE="12">1s</FONT>`)
	assert.Contains(t, content, `<FONT POINT-SIZE="12">total: 3s</FONT>`)
	assert.Contains(t, content, `label="2ms"`)
	assert.Contains(t, content, `color="#`)
	assert.NotContains(t, content, "xlabel")
}

func TestDOTDrawerRuns(t *testing.T) {
	t.Parallel()

	d := newChain(t, "")
	msr := measure.NewDefaultMeasure()
	msr.AddMetric("step").AddDuration(time.Second)
	msr.AddMetric("step").AddDuration(3 * time.Second)
	require.NoError(t, d.AddMeasure(msr))

	buf := &bytes.Buffer{}
	require.NoError(t, d.Write(buf))
	assert.Contains(t, buf.String(), `<FONT POINT-SIZE="12">2s x2</FONT>`)
}

func TestDOTDrawerEmptyMeasure(t *testing.T) {
	t.Parallel()

	d := newChain(t, "")
	require.NoError(t, d.AddMeasure(measure.NewDefaultMeasure()))
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	feature := drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), nil)
	step := &model.StepInfo{Name: "step"}

	require.NoError(t, feature.New())
	require.NoError(t, feature.PrepareStep([]*model.StepInfo{model.StartStep}, step))
	require.NoError(t, feature.PrepareStep([]*model.StepInfo{step}, model.EndStep))
	require.NoError(t, feature.OnStepStart(model.StartStep, step, 0))
	require.NoError(t, feature.OnStepDone(step, 0))
	require.NoError(t, feature.Finish(time.Second))

	raw, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"step" -> "end"`)
	assert.Contains(t, string(raw), `<FONT POINT-SIZE="12">1s</FONT>`)
}

func TestPipelineDrawerUnknownParent(t *testing.T) {
	t.Parallel()

	feature := drawer.PipelineDrawer(drawer.NewDOTDrawer(""), nil)
	require.NoError(t, feature.New())
	err := feature.PrepareStep([]*model.StepInfo{{Name: "unknown"}}, &model.StepInfo{Name: "step"})
	require.Error(t, err)
}

func TestDOTDrawerGraphAttributes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts []drawer.Option
		want []string
	}{
		"default": {want: []string{`rankdir="LR";`}},
		"title": {
			opts: []drawer.Option{drawer.WithTitle("calibration")},
			want: []string{`rankdir="LR";`, `label="calibration";`, `labelloc="t";`},
		},
		"rankdir": {
			opts: []drawer.Option{drawer.WithGraphAttribute("rankdir", "TB")},
			want: []string{`rankdir="TB";`},
		},
	}
	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d := drawer.NewDOTDrawer("", tc.opts...)
			require.NoError(t, d.AddStep("step"))
			buf := &bytes.Buffer{}
			require.NoError(t, d.Write(buf))
			for _, want := range tc.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
