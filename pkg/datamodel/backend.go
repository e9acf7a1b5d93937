package datamodel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-stpipe/pkg/library"
)

// OptionFilename is the Open option overriding the declared filename.
const OptionFilename = "filename"

// Backend reads DataModel files and their associations.
type Backend struct {
	// Observatory is reported by CRDSObservatory.
	Observatory string
}

// NewBackend returns a backend for observatory.
func NewBackend(observatory string) *Backend {
	return &Backend{Observatory: observatory}
}

// CRDSObservatory returns the observatory name.
func (b *Backend) CRDSObservatory() string {
	return b.Observatory
}

// Open reads the model at path.
func (b *Backend) Open(path string, opts map[string]any) (library.Model, error) {
	model, err := Read(path)
	if err != nil {
		return nil, err
	}
	if name, ok := opts[OptionFilename].(string); ok && name != "" {
		model.Meta().Filename = name
	}

	return model, nil
}

// LoadAssociation reads a JSON association, or a YAML one for the .yaml and
// .yml extensions.
func (b *Backend) LoadAssociation(path string) (library.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	manifest := library.Manifest{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &manifest)
	default:
		err = json.Unmarshal(raw, &manifest)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAssociation, "%s: %s", path, err)
	}

	return manifest, nil
}

// FilenameToGroupID reads meta.group_id from the file at path, ignoring the
// rest of the model.
func (b *Backend) FilenameToGroupID(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read %s", path)
	}
	header := struct {
		Meta struct {
			GroupID string `yaml:"group_id"`
		} `yaml:"meta"`
	}{}
	err = yaml.Unmarshal(raw, &header)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidModel, "%s: %s", path, err)
	}
	if header.Meta.GroupID == "" {
		return "", errors.Wrapf(library.ErrNoGroupID, "%s", path)
	}

	return header.Meta.GroupID, nil
}

// ModelToGroupID returns the group id of model.
func (b *Backend) ModelToGroupID(model library.Model) (string, error) {
	groupID := model.Meta().GroupID
	if groupID == "" {
		return "", errors.Wrapf(library.ErrNoGroupID, "model %s", model.Meta().Filename)
	}

	return groupID, nil
}

var _ library.Backend = (*Backend)(nil)
