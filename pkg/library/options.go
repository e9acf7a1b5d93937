package library

import (
	"log/slog"
)

type options struct {
	exptypes         []string
	maxMembers       int
	onDisk           bool
	tempDir          string
	baseDir          string
	openOpts         map[string]any
	groupConcurrency int
	logger           *slog.Logger
}

func defaultOptions() *options {
	return &options{
		maxMembers:       -1,
		groupConcurrency: 1,
		logger:           slog.Default(),
	}
}

// Option configures a Library at construction.
type Option func(o *options)

// WithExpTypes keeps only the members whose exposure type matches one of
// exptypes, ignoring case.
func WithExpTypes(exptypes ...string) Option {
	return func(o *options) {
		o.exptypes = append([]string{}, exptypes...)
	}
}

// WithMaxMembers keeps only the first n members, after exposure type filtering.
func WithMaxMembers(n int) Option {
	return func(o *options) {
		o.maxMembers = n
	}
}

// OnDisk stores models in temporary files between borrows instead of keeping
// them in memory.
func OnDisk() Option {
	return func(o *options) {
		o.onDisk = true
	}
}

// WithTempDir sets the directory used by an on-disk library. The directory is
// not removed by Cleanup.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithBaseDir sets the directory member file names of an in-memory manifest
// are relative to. It defaults to the working directory.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithOpenOptions sets the options passed to Backend.Open.
func WithOpenOptions(opts map[string]any) Option {
	return func(o *options) {
		o.openOpts = opts
	}
}

// WithGroupIDConcurrency sets how many member files may be read at once to
// find their group id. The Backend must then be safe for concurrent use.
func WithGroupIDConcurrency(n int) Option {
	return func(o *options) {
		o.groupConcurrency = n
	}
}

// WithLogger sets the library logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
