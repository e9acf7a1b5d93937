package measure

import (
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

// Report writes a table of the step timings of msr to w, one row per step
// that ran, with the total run time as footer when it is known.
func Report(w io.Writer, msr Measure) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := t.Style()
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = false
	style.Options.SeparateFooter = false

	t.AppendHeader(table.Row{"STEP", "RUNS", "AVERAGE", "MAX", "WAIT"})
	for _, name := range names(msr) {
		mt := msr.GetMetric(name)
		if mt.Runs() == 0 {
			continue
		}
		var wait Wait
		for _, parentWait := range mt.Waits() {
			wait.Total += parentWait.Total
			wait.Count += parentWait.Count
		}
		t.AppendRow(table.Row{name, mt.Runs(), mt.AVGDuration(), mt.MaxDuration(), wait.Average()})
	}
	if end := msr.GetMetric(model.EndStep.Name); end != nil && end.GetTotalDuration() > 0 {
		t.AppendFooter(table.Row{"total", "", round(end.GetTotalDuration())})
	}
	t.Render()
}
