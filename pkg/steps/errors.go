package steps

import "github.com/pkg/errors"

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrUnsupportedModel = errors.New("unsupported model")
)
