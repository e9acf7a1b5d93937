package library_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stpipe/pkg/datamodel"
	"github.com/askiada/go-stpipe/pkg/library"
)

var exampleGroupIDs = []string{"1", "1", "2"}

const (
	exampleProduct = "foo_out"
	initFilename   = "filename"
	initManifest   = "manifest"
	initModels     = "models"
)

var initTypes = []string{initFilename, initManifest, initModels}

func newBackend() *datamodel.Backend {
	return datamodel.NewBackend("test")
}

func exampleModels(t *testing.T) []*datamodel.DataModel {
	t.Helper()

	models := make([]*datamodel.DataModel, len(exampleGroupIDs))
	for i, groupID := range exampleGroupIDs {
		model := datamodel.New(strconv.Itoa(i) + ".asdf")
		model.Meta().GroupID = groupID
		model.Data["index"] = i
		models[i] = model
	}

	return models
}

// writeExampleAsn saves the example models in a temporary directory with an
// association listing them, without group ids, and returns the association path.
func writeExampleAsn(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	members := []any{}
	for _, model := range exampleModels(t) {
		require.NoError(t, model.Save(filepath.Join(dir, model.Meta().Filename)))
		members = append(members, map[string]any{
			"expname": model.Meta().Filename,
			"exptype": "science",
		})
	}
	asn := map[string]any{
		"asn_pool": "pool",
		"asn_id":   "a0001",
		"products": []any{
			map[string]any{
				"name":    exampleProduct,
				"members": members,
			},
		},
	}
	path := filepath.Join(dir, "a0001.json")
	writeAsn(t, path, asn)

	return path
}

func readAsn(t *testing.T, path string) map[string]any {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	asn := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &asn))

	return asn
}

func writeAsn(t *testing.T, path string, asn map[string]any) {
	t.Helper()

	raw, err := json.Marshal(asn)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
}

// setMemberAttr changes attr of the members at indices in the association at path.
func setMemberAttr(t *testing.T, path, attr string, value any, indices ...int) {
	t.Helper()

	asn := readAsn(t, path)
	members := asn["products"].([]any)[0].(map[string]any)["members"].([]any)
	for _, index := range indices {
		members[index].(map[string]any)[attr] = value
	}
	writeAsn(t, path, asn)
}

// libraryModels borrows and shelves every model of lib.
func libraryModels(t *testing.T, lib *library.Library) []library.Model {
	t.Helper()

	models := []library.Model{}
	err := lib.Use(func() error {
		it := lib.Iter()
		for it.Next() {
			models = append(models, it.Model())
		}
		if it.Err() != nil {
			return it.Err()
		}
		for i, model := range models {
			err := lib.Shelve(model, library.ShelveIndex(i), library.ShelveModify(false))
			if err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)

	return models
}

func newLibraryFromInit(t *testing.T, asnPath, initType string, opts ...library.Option) (*library.Library, error) {
	t.Helper()

	backend := newBackend()
	switch initType {
	case initFilename:
		return library.New(backend, asnPath, opts...)
	case initManifest:
		manifest, err := backend.LoadAssociation(asnPath)
		require.NoError(t, err)

		return library.New(backend, manifest, append(opts, library.WithBaseDir(filepath.Dir(asnPath)))...)
	case initModels:
		source, err := library.New(backend, asnPath)
		require.NoError(t, err)

		return library.New(backend, libraryModels(t, source), opts...)
	}
	t.Fatalf("unsupported init type %s", initType)

	return nil, nil
}

func newExampleLibrary(t *testing.T, opts ...library.Option) *library.Library {
	t.Helper()

	lib, err := library.New(newBackend(), writeExampleAsn(t), opts...)
	require.NoError(t, err)

	return lib
}
