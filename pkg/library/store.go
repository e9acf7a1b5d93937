package library

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
)

// modelStore is where a library keeps its models between borrows.
type modelStore interface {
	// load returns the model stored at index, opening it from the member source if needed.
	load(index int) (Model, error)
	// store takes back the model at index. persist reports whether changes must be kept.
	store(index int, model Model, persist bool) error
	// cleanup releases what the store owns.
	cleanup() error
}

// memberLoader opens a member from its source file.
type memberLoader func(index int) (Model, error)

// memoryStore keeps every loaded model resident.
type memoryStore struct {
	loadMember memberLoader
	models     map[int]Model
}

func newMemoryStore(loadMember memberLoader) *memoryStore {
	return &memoryStore{
		loadMember: loadMember,
		models:     make(map[int]Model),
	}
}

func (s *memoryStore) load(index int) (Model, error) {
	if model, ok := s.models[index]; ok {
		return model, nil
	}
	model, err := s.loadMember(index)
	if err != nil {
		return nil, err
	}
	s.models[index] = model

	return model, nil
}

func (s *memoryStore) store(index int, model Model, _ bool) error {
	s.models[index] = model

	return nil
}

func (s *memoryStore) cleanup() error {
	return nil
}

const tempPattern = "stpipe-library-"

// tempRoot is a directory removed on cleanup when the library created it. A
// removed root is created again on the next use.
type tempRoot struct {
	path    string
	owned   bool
	removed bool
}

func newTempRoot(dir string) (*tempRoot, error) {
	if dir != "" {
		return &tempRoot{path: dir}, nil
	}
	path, err := os.MkdirTemp("", tempPattern)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create temporary directory")
	}
	root := &tempRoot{path: path, owned: true}
	runtime.SetFinalizer(root, func(r *tempRoot) {
		_ = r.remove()
	})

	return root, nil
}

func (r *tempRoot) dir() (string, error) {
	if !r.removed {
		return r.path, nil
	}
	path, err := os.MkdirTemp("", tempPattern)
	if err != nil {
		return "", errors.Wrap(err, "unable to create temporary directory")
	}
	r.path = path
	r.removed = false

	return path, nil
}

func (r *tempRoot) remove() error {
	if !r.owned || r.removed {
		return nil
	}
	err := os.RemoveAll(r.path)
	if err != nil {
		return errors.Wrapf(err, "unable to remove %s", r.path)
	}
	r.removed = true

	return nil
}

// diskStore writes shelved models to <root>/<index>/<filename> and reads them
// back on the next borrow. The member sources are never written.
type diskStore struct {
	backend    Backend
	openOpts   map[string]any
	loadMember memberLoader
	root       *tempRoot
	files      map[int]string
	logger     *slog.Logger
}

func newDiskStore(backend Backend, openOpts map[string]any, loadMember memberLoader, root *tempRoot, logger *slog.Logger) *diskStore {
	return &diskStore{
		backend:    backend,
		openOpts:   openOpts,
		loadMember: loadMember,
		root:       root,
		files:      make(map[int]string),
		logger:     logger,
	}
}

func (s *diskStore) load(index int) (Model, error) {
	path, ok := s.files[index]
	if !ok {
		return s.loadMember(index)
	}
	model, err := s.backend.Open(path, s.openOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open temporary model %s", path)
	}

	return model, nil
}

func (s *diskStore) store(index int, model Model, persist bool) error {
	if !persist {
		return nil
	}
	root, err := s.root.dir()
	if err != nil {
		return err
	}
	dir := filepath.Join(root, strconv.Itoa(index))
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dir)
	}
	path := filepath.Join(dir, modelFilename(model))
	err = model.Save(path)
	if err != nil {
		return errors.Wrapf(err, "unable to save model %d to %s", index, path)
	}
	s.logger.Debug("model spilled to disk", "index", index, "path", path)

	if old, ok := s.files[index]; ok && old != path {
		err = os.Remove(old)
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "unable to remove stale model %s", old)
		}
	}
	s.files[index] = path

	return nil
}

// cleanup forgets the spilled models of an owned root. The next borrow of
// those members reads their source again.
func (s *diskStore) cleanup() error {
	err := s.root.remove()
	if err != nil {
		return err
	}
	if s.root.owned {
		s.files = make(map[int]string)
	}

	return nil
}
