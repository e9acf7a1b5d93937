package datamodel

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidModel is returned when a model file cannot be decoded.
	ErrInvalidModel = errors.New("invalid model file")
	// ErrInvalidAssociation is returned when an association file cannot be decoded.
	ErrInvalidAssociation = errors.New("invalid association file")
)
