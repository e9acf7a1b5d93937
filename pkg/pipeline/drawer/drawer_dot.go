package drawer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-stpipe/pkg/pipeline/measure"
)

// DOTDrawer is a drawer that creates a DOT file with the pipeline graph.
type DOTDrawer struct {
	graph       graph.Graph[string, string]
	dotFileName string
	attributes  map[string]string
}

// Option configures a DOT drawer.
type Option func(*DOTDrawer)

// WithTitle labels the graph.
func WithTitle(title string) Option {
	return func(d *DOTDrawer) {
		d.attributes["label"] = title
		d.attributes["labelloc"] = "t"
	}
}

// WithGraphAttribute sets a graph attribute. Steps are laid out from left
// to right unless rankdir is set.
func WithGraphAttribute(key, value string) Option {
	return func(d *DOTDrawer) {
		d.attributes[key] = value
	}
}

// NewDOTDrawer creates a new DOT drawer writing to dotFileName.
func NewDOTDrawer(dotFileName string, opts ...Option) *DOTDrawer {
	d := &DOTDrawer{
		dotFileName: dotFileName,
		graph:       graph.New(graph.StringHash, graph.Directed()),
		attributes:  map[string]string{"rankdir": "LR"},
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("shape", "box"))
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw creates a DOT file with the pipeline graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer file.Close()

	err = d.Write(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.dotFileName)
	}

	return errors.Wrapf(file.Close(), "unable to close %s", d.dotFileName)
}

// Write renders the pipeline graph to wrt.
func (d *DOTDrawer) Write(wrt io.Writer) error {
	desc, err := d.describe()
	if err != nil {
		return err
	}

	return errors.Wrap(dotTemplate.Execute(wrt, desc), "unable to render graph")
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepName string, total time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stepName)
	}

	properties.Attributes["xlabel"] = total.String()

	return nil
}

const maxRGB = 240

// AddMeasure labels steps with their average duration and edges with the
// average wait after the parent. Edges are coloured from blue, the shortest
// wait, to red, the longest.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()
	waits := make(map[time.Duration]string)
	for _, mt := range metrics {
		for _, w := range mt.Waits() {
			if avg := w.Average(); avg > 0 {
				waits[avg] = ""
			}
		}
	}

	err := rampColours(waits)
	if err != nil {
		return err
	}

	for name, mt := range metrics {
		err := d.updateStep(name, mt, waits)
		if err != nil {
			return errors.Wrap(err, "unable to update metrics")
		}
	}

	return nil
}

// rampColours sets the colour of every wait, from blue for the shortest to
// red for the longest.
func rampColours(waits map[time.Duration]string) error {
	if len(waits) == 0 {
		return nil
	}
	var shortest, longest time.Duration = -1, 0
	for wait := range waits {
		if shortest < 0 || wait < shortest {
			shortest = wait
		}
		if wait > longest {
			longest = wait
		}
	}

	for wait := range waits {
		fraction := 1.0
		if longest > shortest {
			fraction = float64(wait-shortest) / float64(longest-shortest)
		}
		red := maxRGB * fraction
		colour, err := colors.RGB(uint8(red), 0, uint8(maxRGB-red)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}
		waits[wait] = colour.ToHEX().String()
	}

	return nil
}

func (d *DOTDrawer) updateStep(name string, mt measure.Metric, colours map[time.Duration]string) error {
	_, properties, err := d.graph.VertexWithProperties(name)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", name)
	}

	if avg := mt.AVGDuration(); avg != 0 {
		properties.Attributes["xlabel"] = avg.String()
		if mt.Runs() > 1 {
			properties.Attributes["xlabel"] = fmt.Sprintf("%s x%d", avg, mt.Runs())
		}
	}
	if total := mt.GetTotalDuration(); total > 0 {
		properties.Attributes["xlabel"] = "total: " + total.String()
	}

	for parent, w := range mt.Waits() {
		avg := w.Average()
		if avg == 0 {
			continue
		}
		err := d.graph.UpdateEdge(parent, name,
			graph.EdgeAttribute("label", avg.String()),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", colours[avg]),
		)
		if err != nil {
			return errors.Wrapf(err, "unable to update edge from %s to %s", parent, name)
		}
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
