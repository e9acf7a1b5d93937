package drawer

import (
	"io"
	"time"

	"github.com/askiada/go-stpipe/pkg/pipeline/measure"
)

// Drawer builds a picture of the step graph of a pipeline as it is
// prepared, then decorates it with the timings of a run.
type Drawer interface {
	AddStep(name string) error
	// AddLink records that child runs after parent. Both steps must have
	// been added.
	AddLink(parent, child string) error
	// SetTotalTime attaches the duration of the whole run to a step,
	// usually the end step.
	SetTotalTime(name string, total time.Duration) error
	AddMeasure(msr measure.Measure) error
	// Write renders the picture to w. Draw renders it to the drawer's own
	// destination.
	Write(w io.Writer) error
	Draw() error
}
