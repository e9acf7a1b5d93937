package pipeline

import (
	"log/slog"

	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

type PipelineOption func(p *Pipeline)

// WithFeatures attaches features notified in the given order.
func WithFeatures(features ...model.Feature) PipelineOption {
	return func(p *Pipeline) {
		p.features = append(p.features, features...)
	}
}

// WithProvider sets where reference parameters come from.
func WithProvider(provider ParameterProvider) PipelineOption {
	return func(p *Pipeline) {
		p.provider = provider
	}
}

// WithOutputDir sets the directory step results are saved to. It defaults to
// the working directory.
func WithOutputDir(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.outputDir = dir
	}
}

// WithRegistry sets the registry hooks and configuration classes are looked
// up in.
func WithRegistry(registry *Registry) PipelineOption {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

type StepOption func(s *step)

// StepAfter sets the steps this step depends on. They must already be added.
func StepAfter(names ...string) StepOption {
	return func(s *step) {
		s.after = append([]string{}, names...)
		s.afterSet = true
	}
}

// StepClass records the registered class the step was built from.
func StepClass(class string) StepOption {
	return func(s *step) {
		s.info.Class = class
	}
}

// StepDefaults sets the lowest priority parameters of the step.
func StepDefaults(params Params) StepOption {
	return func(s *step) {
		s.defaults = params
	}
}

// StepParameters sets the configured parameters of the step. They override
// the defaults and the provider parameters.
func StepParameters(params Params) StepOption {
	return func(s *step) {
		s.config = params
	}
}

// StepSkip disables the step. Its dependents still run.
func StepSkip(skip bool) StepOption {
	return func(s *step) {
		s.info.Skip = skip
	}
}

// StepPreHooks sets registered steps run before the step.
func StepPreHooks(names ...string) StepOption {
	return func(s *step) {
		s.preHooks = append([]string{}, names...)
	}
}

// StepPostHooks sets registered steps run after the step.
func StepPostHooks(names ...string) StepOption {
	return func(s *step) {
		s.postHooks = append([]string{}, names...)
	}
}

// StepSaveResults saves every model once the step is done, named with
// OutputName and suffix.
func StepSaveResults(suffix string) StepOption {
	return func(s *step) {
		s.saveResults = true
		s.suffix = suffix
	}
}

type runConfig struct {
	overrides Overrides
}

type RunOption func(c *runConfig)

// RunOverrides sets the highest priority parameters, keyed by step name.
func RunOverrides(overrides Overrides) RunOption {
	return func(c *runConfig) {
		c.overrides = overrides
	}
}
