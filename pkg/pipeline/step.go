package pipeline

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

type hook struct {
	name string
	fn   StepFunc
}

type step struct {
	info     *model.StepInfo
	fn       StepFunc
	position int

	after    []string
	afterSet bool

	defaults Params
	config   Params

	preHooks    []string
	postHooks   []string
	preHookFns  []hook
	postHookFns []hook
	saveResults bool
	suffix      string
}

// AddStep adds a step running fn. Without StepAfter the step depends on the
// step added before it.
func (p *Pipeline) AddStep(name string, fn StepFunc, opts ...StepOption) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if fn == nil {
		return errors.Wrapf(ErrStepFnMustBeSet, "step %s", name)
	}
	if name == "" {
		return errors.Wrap(ErrInvalidConfig, "step name must be set")
	}
	if _, ok := p.steps[name]; ok || model.Reserved(name) {
		return errors.Wrapf(ErrStepExists, "step %s", name)
	}

	s := &step{
		info:     &model.StepInfo{Name: name, Class: name},
		fn:       fn,
		position: len(p.order),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.afterSet && len(p.order) > 0 {
		s.after = []string{p.order[len(p.order)-1]}
	}
	s.after = dedupe(s.after)
	for _, dep := range s.after {
		if _, ok := p.steps[dep]; !ok {
			return errors.Wrapf(ErrUnknownStep, "step %s depends on %s", name, dep)
		}
	}
	if s.saveResults && s.suffix == "" {
		s.suffix = name
	}

	var err error
	s.preHookFns, err = p.resolveHooks(s.preHooks)
	if err != nil {
		return errors.Wrapf(err, "pre hooks of step %s", name)
	}
	s.postHookFns, err = p.resolveHooks(s.postHooks)
	if err != nil {
		return errors.Wrapf(err, "post hooks of step %s", name)
	}

	err = p.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add step %s", name)
	}
	for _, dep := range s.after {
		err = p.graph.AddEdge(dep, name)
		if err != nil {
			return errors.Wrapf(err, "unable to link step %s to %s", dep, name)
		}
	}
	p.steps[name] = s
	p.order = append(p.order, name)

	return nil
}

func (p *Pipeline) resolveHooks(names []string) ([]hook, error) {
	hooks := make([]hook, 0, len(names))
	for _, name := range names {
		fn, err := p.registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, hook{name: name, fn: fn})
	}

	return hooks, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	res := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		res = append(res, name)
	}

	return res
}

// Step returns the description of the step called name.
func (p *Pipeline) Step(name string) (*model.StepInfo, error) {
	s, ok := p.steps[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStep, "pipeline %s has no step %s", p.name, name)
	}

	return s.info, nil
}

// After returns the names of the steps name depends on, in the order they
// were added.
func (p *Pipeline) After(name string) ([]string, error) {
	s, ok := p.steps[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStep, "pipeline %s has no step %s", p.name, name)
	}
	res := append([]string{}, s.after...)
	sort.Slice(res, func(i, j int) bool {
		return p.steps[res[i]].position < p.steps[res[j]].position
	})

	return res, nil
}
