package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// AsnFilename is the name of the association written by Save.
const AsnFilename = "asn.json"

// Save writes every model to dir under its declared filename, and an
// association listing them, and returns the association path.
//
// Save does not check that filenames are distinct and does not copy the
// association pool information. The library must be closed.
func (l *Library) Save(dir string) (string, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", errors.Wrapf(err, "unable to create %s", dir)
	}

	members := make([]any, 0, l.Len())
	err = l.Use(func() error {
		it := l.Iter()
		for it.Next() {
			model := it.Model()
			filename := modelFilename(model)
			err := model.Save(filepath.Join(dir, filename))
			if err == nil {
				members = append(members, map[string]any{
					keyExpName: filename,
					keyExpType: model.Meta().ExpType,
					keyGroupID: model.Meta().GroupID,
				})
			}
			shelveErr := l.Shelve(model, ShelveIndex(it.Index()), ShelveModify(false))
			if err != nil {
				return errors.Wrapf(err, "unable to save model %d", it.Index())
			}
			if shelveErr != nil {
				return shelveErr
			}
		}

		return it.Err()
	})
	if err != nil {
		return "", err
	}

	asn := map[string]any{
		keyProducts: []any{
			map[string]any{keyMembers: members},
		},
	}
	data, err := json.MarshalIndent(asn, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "unable to encode association")
	}
	asnPath := filepath.Join(dir, AsnFilename)
	err = os.WriteFile(asnPath, data, 0o644) //nolint:gosec // association files are shared
	if err != nil {
		return "", errors.Wrapf(err, "unable to write %s", asnPath)
	}

	return asnPath, nil
}

// GetCRDSParameters returns the CRDS parameters of the first science member,
// or of the first member if there is no science member. The library must be
// closed.
func (l *Library) GetCRDSParameters() (map[string]any, error) {
	if l.Len() == 0 {
		return nil, errors.Wrap(ErrIndexOutOfRange, "library has no models")
	}
	index := -1
	for i, m := range l.asn.members {
		if strings.EqualFold(m.expType(), "science") {
			index = i

			break
		}
	}
	if index < 0 {
		l.logger.Warn("no science member found, using the first model for CRDS parameters")
		index = 0
	}

	var params map[string]any
	err := l.Use(func() error {
		model, err := l.Borrow(index)
		if err != nil {
			return err
		}
		params, err = model.CRDSParameters()
		shelveErr := l.Shelve(model, ShelveIndex(index), ShelveModify(false))
		if err != nil {
			return errors.Wrapf(err, "unable to get CRDS parameters of model %d", index)
		}

		return shelveErr
	})
	if err != nil {
		return nil, err
	}

	return params, nil
}

// Finalize calls fn on every model and keeps the changes. The library must be
// closed.
func (l *Library) Finalize(fn func(model Model, index int) error) error {
	_, err := MapFunction(l, func(model Model, index int) (struct{}, error) {
		return struct{}{}, fn(model, index)
	}, true).Collect()

	return err
}
