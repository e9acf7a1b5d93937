package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-stpipe/pkg/library"
	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

// Pipeline is a graph of steps run over a library.
type Pipeline struct {
	name      string
	graph     graph.Graph[string, string]
	steps     map[string]*step
	order     []string
	features  []model.Feature
	provider  ParameterProvider
	registry  *Registry
	outputDir string
	logger    *slog.Logger
	prepared  bool
}

// New creates a new pipeline.
func New(name string, opts ...PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		name:     name,
		graph:    graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
		steps:    make(map[string]*step),
		registry: defaultRegistry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(pipe)
	}

	for _, feature := range pipe.features {
		err := feature.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to initialise pipeline feature")
		}
	}

	return pipe, nil
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Plan returns the step names in execution order. Steps are ordered by
// dependency, then by the order they were added.
func (p *Pipeline) Plan() ([]string, error) {
	order, err := graph.StableTopologicalSort(p.graph, func(a, b string) bool {
		return p.steps[a].position < p.steps[b].position
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to order steps")
	}

	return order, nil
}

// parents returns the dependencies of every step, in the order they were
// added, using StartStep for steps without any.
func (p *Pipeline) parents() (map[string][]*model.StepInfo, error) {
	predecessors, err := p.graph.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get step dependencies")
	}
	res := make(map[string][]*model.StepInfo, len(predecessors))
	for name, deps := range predecessors {
		infos := make([]*model.StepInfo, 0, len(deps))
		for dep := range deps {
			infos = append(infos, p.steps[dep].info)
		}
		sort.Slice(infos, func(i, j int) bool {
			return p.steps[infos[i].Name].position < p.steps[infos[j].Name].position
		})
		if len(infos) == 0 {
			infos = append(infos, model.StartStep)
		}
		res[name] = infos
	}

	return res, nil
}

func (p *Pipeline) leaves(order []string) ([]*model.StepInfo, error) {
	adjacency, err := p.graph.AdjacencyMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get step dependents")
	}
	res := []*model.StepInfo{}
	for _, name := range order {
		if len(adjacency[name]) == 0 {
			res = append(res, p.steps[name].info)
		}
	}
	if len(res) == 0 {
		res = append(res, model.StartStep)
	}

	return res, nil
}

// prepareFeatures notifies the features of the steps on the first run only,
// so features accumulate over repeated runs.
func (p *Pipeline) prepareFeatures(order []string, parents map[string][]*model.StepInfo) error {
	if p.prepared || len(p.features) == 0 {
		return nil
	}
	leaves, err := p.leaves(order)
	if err != nil {
		return err
	}
	for _, feature := range p.features {
		for _, name := range order {
			err := feature.PrepareStep(parents[name], p.steps[name].info)
			if err != nil {
				return errors.Wrapf(err, "unable to prepare step %s", name)
			}
		}
		err := feature.PrepareStep(leaves, model.EndStep)
		if err != nil {
			return errors.Wrap(err, "unable to prepare end step")
		}
	}
	p.prepared = true

	return nil
}

type run struct {
	lib        *library.Library
	logger     *slog.Logger
	overrides  Overrides
	parents    map[string][]*model.StepInfo
	doneAt     map[string]time.Time
	crdsParams map[string]any
}

// Run runs every step over lib, which must be closed. The pipeline stops at
// the first failing step or when ctx is done between steps.
func (p *Pipeline) Run(ctx context.Context, lib *library.Library, opts ...RunOption) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if lib == nil {
		return ErrLibraryMustBeSet
	}
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	order, err := p.Plan()
	if err != nil {
		return err
	}
	parents, err := p.parents()
	if err != nil {
		return err
	}
	err = p.prepareFeatures(order, parents)
	if err != nil {
		return err
	}

	start := time.Now()
	rn := &run{
		lib:       lib,
		logger:    p.logger.With("pipeline", p.name, "run_id", uuid.NewString()),
		overrides: cfg.overrides,
		parents:   parents,
		doneAt:    map[string]time.Time{model.StartStep.Name: start},
	}
	rn.logger.Info("pipeline started", "steps", len(order), "models", lib.Len())

	for _, name := range order {
		err := ctx.Err()
		if err != nil {
			return errors.Wrapf(err, "pipeline %s stopped before step %s", p.name, name)
		}
		s := p.steps[name]
		if s.info.Skip {
			rn.logger.Info("step skipped", "step", name)
			rn.doneAt[name] = time.Now()

			continue
		}
		err = p.runStep(ctx, rn, s)
		if err != nil {
			return err
		}
	}

	total := time.Since(start)
	for _, feature := range p.features {
		err := feature.Finish(total)
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline feature")
		}
	}
	rn.logger.Info("pipeline done", "elapsed", total)

	return nil
}

func (p *Pipeline) stepParams(ctx context.Context, rn *run, s *step) (Params, error) {
	var provided Params
	if p.provider != nil && rn.lib.Len() > 0 {
		if rn.crdsParams == nil {
			crdsParams, err := rn.lib.GetCRDSParameters()
			if err != nil {
				return nil, errors.Wrap(err, "unable to get CRDS parameters")
			}
			rn.crdsParams = crdsParams
		}
		var err error
		provided, err = p.provider.StepParameters(ctx, rn.lib.CRDSObservatory(), rn.crdsParams, s.info.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to get reference parameters of step %s", s.info.Name)
		}
	}

	return mergeParams(s.defaults, provided, s.config, rn.overrides[s.info.Name]), nil
}

func (p *Pipeline) runStep(ctx context.Context, rn *run, s *step) error {
	name := s.info.Name
	logger := rn.logger.With("step", name)
	ctx = withLogger(ctx, logger)

	params, err := p.stepParams(ctx, rn, s)
	if err != nil {
		return err
	}

	for _, h := range s.preHookFns {
		err := h.fn(ctx, rn.lib, Params{})
		if err != nil {
			return errors.Wrapf(err, "pre hook %s of step %s", h.name, name)
		}
	}

	started := time.Now()
	for _, parent := range rn.parents[name] {
		for _, feature := range p.features {
			err := feature.OnStepStart(parent, s.info, started.Sub(rn.doneAt[parent.Name]))
			if err != nil {
				return errors.Wrapf(err, "unable to start step %s", name)
			}
		}
	}
	logger.Info("step started", "class", s.info.Class)
	logger.Debug("step parameters", "params", params)

	err = s.fn(ctx, rn.lib, params)
	if err != nil {
		return errors.Wrapf(err, "step %s", name)
	}
	elapsed := time.Since(started)
	for _, feature := range p.features {
		err := feature.OnStepDone(s.info, elapsed)
		if err != nil {
			return errors.Wrapf(err, "unable to end step %s", name)
		}
	}

	for _, h := range s.postHookFns {
		err := h.fn(ctx, rn.lib, Params{})
		if err != nil {
			return errors.Wrapf(err, "post hook %s of step %s", h.name, name)
		}
	}

	if s.saveResults {
		err := p.saveResults(ctx, rn.lib, s)
		if err != nil {
			return errors.Wrapf(err, "unable to save results of step %s", name)
		}
	}
	logger.Info("step done", "elapsed", elapsed)
	rn.doneAt[name] = time.Now()

	return nil
}

func (p *Pipeline) saveResults(ctx context.Context, lib *library.Library, s *step) error {
	dir := p.outputDir
	if dir == "" {
		dir = "."
	}
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dir)
	}

	paths, err := library.MapFunction(lib, func(mdl library.Model, index int) (string, error) {
		filename := mdl.Meta().Filename
		if filename == "" {
			filename = library.DefaultModelFilename
		}
		path := filepath.Join(dir, OutputName(filename, s.suffix))
		err := mdl.Save(path)
		if err != nil {
			return "", errors.Wrapf(err, "unable to save model %d", index)
		}

		return path, nil
	}, false).Collect()
	if err != nil {
		return err
	}
	Logger(ctx).Info("step results saved", "files", len(paths), "dir", dir)

	return nil
}
