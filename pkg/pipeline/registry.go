package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-stpipe/pkg/library"
)

// StepFunc is the work of a step. It receives the library closed and must
// leave it closed.
type StepFunc func(ctx context.Context, lib *library.Library, params Params) error

// Registry maps step class names to their function. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]StepFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]StepFunc)}
}

// Register adds fn under name.
func (r *Registry) Register(name string, fn StepFunc) error {
	if fn == nil {
		return errors.Wrapf(ErrStepFnMustBeSet, "unable to register %s", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.steps[name]; ok {
		return errors.Wrapf(ErrStepExists, "%s is already registered", name)
	}
	r.steps[name] = fn

	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (StepFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.steps[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStep, "%s is not registered", name)
	}

	return fn, nil
}

// Registered returns the sorted registered names.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by pipelines created without
// WithRegistry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds fn to the default registry.
func Register(name string, fn StepFunc) error {
	return defaultRegistry.Register(name, fn)
}

// MustRegister is like Register but panics on error. It is meant for init
// functions.
func MustRegister(name string, fn StepFunc) {
	err := Register(name, fn)
	if err != nil {
		panic(err)
	}
}

// Lookup returns a function of the default registry.
func Lookup(name string) (StepFunc, error) {
	return defaultRegistry.Lookup(name)
}

// Registered returns the names of the default registry.
func Registered() []string {
	return defaultRegistry.Registered()
}
