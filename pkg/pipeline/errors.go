package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("pipeline must be set")
	ErrLibraryMustBeSet  = errors.New("library must be set")
	ErrStepFnMustBeSet   = errors.New("step function must be set")
	ErrStepExists        = errors.New("step already exists")
	ErrUnknownStep       = errors.New("unknown step")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
