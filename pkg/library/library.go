package library

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Library owns the models of an association. Models are borrowed from the
// library while it is open and must be shelved before it closes.
//
// A Library is not safe for concurrent use.
type Library struct {
	backend  Backend
	openOpts map[string]any
	logger   *slog.Logger

	asn     *association
	frozen  AsnMap
	baseDir string

	store  modelStore
	ledger *ledger
	open   bool
}

// New creates a library from init, which is one of:
//   - a path to an association manifest, read with Backend.LoadAssociation;
//   - a Manifest or map[string]any, deep copied;
//   - a []Model, []string or []any of models and model file names.
//
// A list of models cannot be used with OnDisk.
func New(backend Backend, init any, opts ...Option) (*Library, error) {
	if backend == nil {
		return nil, errors.Wrap(ErrInvalidInput, "backend must be set")
	}
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	lib := &Library{
		backend:  backend,
		openOpts: cfg.openOpts,
		logger:   cfg.logger,
		ledger:   newLedger(),
	}

	var (
		tree   map[string]any
		loaded []Model
		err    error
	)
	switch v := init.(type) {
	case string:
		tree, err = lib.readManifest(v)
	case Manifest:
		tree, err = lib.copyManifest(v, cfg.baseDir)
	case map[string]any:
		tree, err = lib.copyManifest(v, cfg.baseDir)
	case *Library:
		return nil, errors.Wrap(ErrInvalidInput, "a library cannot be built from another library")
	case []Model, []string, []any:
		if cfg.onDisk {
			return nil, errors.Wrap(ErrInvalidInput, "on-disk storage cannot be used for a list of models")
		}
		tree, loaded, err = lib.fromModels(toItems(v), cfg)
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unsupported input %T", init)
	}
	if err != nil {
		return nil, err
	}

	lib.asn, err = newAssociation(tree)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		lib.asn.filter(cfg.exptypes, cfg.maxMembers)
		err = resolveGroupIDs(backend, lib.asn.members, lib.baseDir, cfg.groupConcurrency)
		if err != nil {
			return nil, err
		}
	}
	lib.frozen = freezeMap(lib.asn.tree)

	if cfg.onDisk {
		root, err := newTempRoot(cfg.tempDir)
		if err != nil {
			return nil, err
		}
		lib.store = newDiskStore(backend, cfg.openOpts, lib.loadMember, root, cfg.logger)

		return lib, nil
	}

	memory := newMemoryStore(lib.loadMember)
	for i, model := range loaded {
		lib.asn.members[i].applyTo(model, lib.asn.tree)
		memory.models[i] = model
	}
	lib.store = memory

	return lib, nil
}

func (l *Library) readManifest(path string) (map[string]any, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	l.baseDir = filepath.Dir(path)
	manifest, err := l.backend.LoadAssociation(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load association %s", path)
	}
	if manifest == nil {
		return nil, errors.Wrapf(ErrInvalidInput, "association %s is empty", path)
	}

	return deepCopyMap(manifest), nil
}

func (l *Library) copyManifest(manifest map[string]any, baseDir string) (map[string]any, error) {
	if manifest == nil {
		return nil, errors.Wrap(ErrInvalidInput, "association is nil")
	}
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "unable to get working directory")
		}
		baseDir = wd
	}
	l.baseDir = baseDir

	return deepCopyMap(manifest), nil
}

func toItems(list any) []any {
	switch v := list.(type) {
	case []Model:
		res := make([]any, len(v))
		for i, m := range v {
			res[i] = m
		}

		return res
	case []string:
		res := make([]any, len(v))
		for i, s := range v {
			res[i] = s
		}

		return res
	case []any:
		return v
	}

	return nil
}

// fromModels builds a manifest with one member per model. Filters are applied
// before a model gets an index.
func (l *Library) fromModels(items []any, cfg *options) (map[string]any, []Model, error) {
	members := []member{}
	loaded := []Model{}
	filenames := make(map[string]struct{})
	for i, item := range items {
		if cfg.maxMembers >= 0 && len(members) == cfg.maxMembers {
			break
		}
		var model Model
		switch v := item.(type) {
		case string:
			opened, err := l.backend.Open(v, l.openOpts)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "unable to open %s", v)
			}
			model = opened
		case Model:
			if !hashable(v) {
				return nil, nil, errors.Wrapf(ErrInvalidInput, "list item %d of type %T cannot be used as a map key", i, item)
			}
			model = v
		default:
			return nil, nil, errors.Wrapf(ErrInvalidInput, "unsupported list item %d of type %T", i, item)
		}

		exptype := modelExpType(model)
		if cfg.exptypes != nil && !containsFold(cfg.exptypes, exptype) {
			continue
		}
		filename := modelFilename(model)
		if _, ok := filenames[filename]; ok {
			return nil, nil, errors.Wrapf(ErrInvalidInput, "models in a library cannot use the same filename: %s", filename)
		}
		filenames[filename] = struct{}{}

		groupID, err := groupIDFromModel(l.backend, len(members), model)
		if err != nil {
			return nil, nil, err
		}
		members = append(members, member{
			keyExpName: filename,
			keyExpType: exptype,
			keyGroupID: groupID,
		})
		loaded = append(loaded, model)
	}

	return syntheticManifest(members), loaded, nil
}

var envVar = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// expandEnv replaces $name and ${name} with the value of the environment
// variable. Unset variables are left as written.
func expandEnv(path string) string {
	return envVar.ReplaceAllStringFunc(path, func(ref string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(ref[1:], "{"), "}")
		if value, ok := os.LookupEnv(name); ok {
			return value
		}

		return ref
	})
}

func expandPath(path string) (string, error) {
	path = expandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "unable to expand home directory")
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to get absolute path of %s", path)
	}

	return abs, nil
}

func (l *Library) loadMember(index int) (Model, error) {
	m := l.asn.members[index]
	path := m.path(l.baseDir)
	model, err := l.backend.Open(path, l.openOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open member %d from %s", index, path)
	}
	m.applyTo(model, l.asn.tree)

	return model, nil
}

// Len returns the number of models in the library.
func (l *Library) Len() int {
	return len(l.asn.members)
}

// CRDSObservatory returns the observatory of the library backend.
func (l *Library) CRDSObservatory() string {
	return l.backend.CRDSObservatory()
}

// Asn returns a read-only snapshot of the association the library was built
// from. It reflects group ids assigned at construction, not later changes
// made to model metadata.
func (l *Library) Asn() AsnMap {
	return l.frozen
}

// GroupNames returns the sorted distinct group ids of the members.
func (l *Library) GroupNames() []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, m := range l.asn.members {
		groupID, _ := m.groupID()
		if _, ok := seen[groupID]; ok {
			continue
		}
		seen[groupID] = struct{}{}
		names = append(names, groupID)
	}
	sort.Strings(names)

	return names
}

// GroupIndices returns the member indices of every group id.
func (l *Library) GroupIndices() map[string][]int {
	groups := make(map[string][]int)
	for i, m := range l.asn.members {
		groupID, _ := m.groupID()
		groups[groupID] = append(groups[groupID], i)
	}

	return groups
}

// IsOpen reports whether models can be borrowed.
func (l *Library) IsOpen() bool {
	return l.open
}

// Borrowed returns the sorted indices of the models currently borrowed.
func (l *Library) Borrowed() []int {
	indices := l.ledger.indices()
	sort.Ints(indices)

	return indices
}

// Open opens the library. Prefer Use, which always closes it.
func (l *Library) Open() error {
	if l.open {
		return ErrLibraryOpen
	}
	l.open = true

	return nil
}

// Close closes the library. It returns ErrBorrow if models are still borrowed.
func (l *Library) Close() error {
	l.open = false
	if n := l.ledger.len(); n > 0 {
		return errors.Wrapf(ErrBorrow, "library has %d un-returned models", n)
	}

	return nil
}

// Use opens the library, runs fn and closes the library. An error or a panic
// from fn is returned as is, without checking for un-returned models.
func (l *Library) Use(fn func() error) (err error) {
	err = l.Open()
	if err != nil {
		return err
	}
	panicked := true
	defer func() {
		if panicked || err != nil {
			l.open = false

			return
		}
		err = l.Close()
	}()
	err = fn()
	panicked = false

	return err
}

func (l *Library) checkIndex(index int) error {
	if index < 0 || index >= l.Len() {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, library has %d models", index, l.Len())
	}

	return nil
}

// Borrow returns the model at index. The model must be shelved before the
// library closes.
func (l *Library) Borrow(index int) (Model, error) {
	if !l.open {
		return nil, errors.Wrapf(ErrClosedLibrary, "unable to borrow model %d", index)
	}
	err := l.checkIndex(index)
	if err != nil {
		return nil, err
	}
	if _, ok := l.ledger.model(index); ok {
		return nil, errors.Wrapf(ErrBorrow, "model %d is already borrowed", index)
	}
	model, err := l.store.load(index)
	if err != nil {
		return nil, err
	}
	if !hashable(model) {
		return nil, errors.Wrapf(ErrInvalidInput, "model %d of type %T cannot be used as a map key", index, model)
	}
	l.ledger.put(index, model)

	return model, nil
}

type shelveConfig struct {
	index    int
	hasIndex bool
	modify   bool
}

// ShelveOption configures Shelve.
type ShelveOption func(c *shelveConfig)

// ShelveIndex sets the index the model is shelved at. Without it the index
// the model was borrowed from is used.
func ShelveIndex(index int) ShelveOption {
	return func(c *shelveConfig) {
		c.index = index
		c.hasIndex = true
	}
}

// ShelveModify sets whether changes are kept by an on-disk library. The
// default is true. An in-memory library always keeps the shelved model.
func ShelveModify(modify bool) ShelveOption {
	return func(c *shelveConfig) {
		c.modify = modify
	}
}

// Shelve returns a borrowed model to the library.
func (l *Library) Shelve(model Model, opts ...ShelveOption) error {
	cfg := shelveConfig{modify: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !l.open {
		return errors.Wrap(ErrClosedLibrary, "unable to shelve model")
	}
	index := cfg.index
	if !cfg.hasIndex {
		var ok bool
		index, ok = l.ledger.index(model)
		if !ok {
			return errors.Wrap(ErrBorrow, "unable to shelve an unknown model")
		}
	}
	if _, ok := l.ledger.model(index); !ok {
		return errors.Wrapf(ErrBorrow, "unable to shelve model at non-borrowed index %d", index)
	}
	err := l.store.store(index, model, cfg.modify)
	if err != nil {
		return err
	}
	l.ledger.remove(index)

	return nil
}

// Cleanup removes the temporary directory created by an on-disk library.
func (l *Library) Cleanup() error {
	return l.store.cleanup()
}
