package datamodel

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-stpipe/pkg/library"
)

type asnDoc struct {
	TableName string `yaml:"table_name,omitempty"`
	PoolName  string `yaml:"pool_name,omitempty"`
}

type metaDoc struct {
	Filename        string `yaml:"filename,omitempty"`
	ExpType         string `yaml:"exptype,omitempty"`
	GroupID         string `yaml:"group_id,omitempty"`
	TweakregCatalog string `yaml:"tweakreg_catalog,omitempty"`
	Asn             asnDoc `yaml:"asn,omitempty"`
}

type document struct {
	Meta metaDoc        `yaml:"meta"`
	Data map[string]any `yaml:"data,omitempty"`
}

// DataModel is a model made of library metadata and free-form data.
type DataModel struct {
	meta library.Meta
	// Data holds the model content.
	Data map[string]any
}

// New returns an empty model declaring filename.
func New(filename string) *DataModel {
	return &DataModel{
		meta: library.Meta{Filename: filename},
		Data: make(map[string]any),
	}
}

// Read reads the model stored at path. A model without a declared filename
// takes the base name of path.
func Read(path string) (*DataModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	doc := document{}
	err = yaml.Unmarshal(raw, &doc)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidModel, "%s: %s", path, err)
	}
	model := &DataModel{
		meta: library.Meta{
			Filename:        doc.Meta.Filename,
			ExpType:         doc.Meta.ExpType,
			GroupID:         doc.Meta.GroupID,
			TweakregCatalog: doc.Meta.TweakregCatalog,
			Asn: library.AsnMeta{
				TableName: doc.Meta.Asn.TableName,
				PoolName:  doc.Meta.Asn.PoolName,
			},
		},
		Data: doc.Data,
	}
	if model.Data == nil {
		model.Data = make(map[string]any)
	}
	if model.meta.Filename == "" {
		model.meta.Filename = filepath.Base(path)
	}

	return model, nil
}

// Meta returns the model metadata.
func (m *DataModel) Meta() *library.Meta {
	return &m.meta
}

// Save writes the model to path.
func (m *DataModel) Save(path string) error {
	doc := document{
		Meta: metaDoc{
			Filename:        m.meta.Filename,
			ExpType:         m.meta.ExpType,
			GroupID:         m.meta.GroupID,
			TweakregCatalog: m.meta.TweakregCatalog,
			Asn: asnDoc{
				TableName: m.meta.Asn.TableName,
				PoolName:  m.meta.Asn.PoolName,
			},
		},
		Data: m.Data,
	}
	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.Wrapf(err, "unable to encode model %s", m.meta.Filename)
	}
	err = os.WriteFile(path, raw, 0o644) //nolint:gosec // model files are shared
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}

	return nil
}

// CRDSParameters returns the metadata as "meta.*" keys and every scalar leaf
// of Data under its dotted path.
func (m *DataModel) CRDSParameters() (map[string]any, error) {
	params := map[string]any{
		"meta.filename":       m.meta.Filename,
		"meta.exptype":        m.meta.ExpType,
		"meta.group_id":       m.meta.GroupID,
		"meta.asn.table_name": m.meta.Asn.TableName,
		"meta.asn.pool_name":  m.meta.Asn.PoolName,
	}
	if m.meta.TweakregCatalog != "" {
		params["meta.tweakreg_catalog"] = m.meta.TweakregCatalog
	}
	flatten(params, "", m.Data)

	return params, nil
}

func flatten(dst map[string]any, prefix string, data map[string]any) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch v := data[k].(type) {
		case map[string]any:
			flatten(dst, name, v)
		case []any:
			// lists do not select reference files
		default:
			dst[name] = v
		}
	}
}

var _ library.Model = (*DataModel)(nil)
