package library

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is returned when a library is built from an unsupported input.
	ErrInvalidInput = errors.New("invalid library input")
	// ErrClosedLibrary is returned when a model is borrowed or shelved outside an open scope.
	ErrClosedLibrary = errors.New("library is not open")
	// ErrLibraryOpen is returned when opening a library that is already open.
	ErrLibraryOpen = errors.New("library is already open")
	// ErrBorrow is returned for every borrow bookkeeping violation.
	ErrBorrow = errors.New("borrow error")
	// ErrIndexOutOfRange is returned when an index does not name a library member.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNoGroupID is returned by a Backend when no group id can be found.
	// The library replaces it with a synthetic id.
	ErrNoGroupID = errors.New("no group id")
)
