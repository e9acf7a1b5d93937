package library_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stpipe/pkg/datamodel"
	"github.com/askiada/go-stpipe/pkg/library"
)

func TestSave(t *testing.T) {
	t.Parallel()

	for _, initType := range initTypes {
		initType := initType
		t.Run(initType, func(t *testing.T) {
			t.Parallel()

			lib, err := newLibraryFromInit(t, writeExampleAsn(t), initType)
			require.NoError(t, err)

			dir := filepath.Join(t.TempDir(), "out")
			asnPath, err := lib.Save(dir)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, library.AsnFilename), asnPath)
			assert.False(t, lib.IsOpen())
			for i := range exampleGroupIDs {
				assert.FileExists(t, filepath.Join(dir, fmt.Sprintf("%d.asdf", i)))
			}

			saved, err := library.New(newBackend(), asnPath)
			require.NoError(t, err)
			assert.Equal(t, lib.Len(), saved.Len())
			assert.Equal(t, lib.GroupIndices(), saved.GroupIndices())

			for i, model := range libraryModels(t, saved) {
				assert.Equal(t, i, model.(*datamodel.DataModel).Data["index"])
				assert.Equal(t, "science", model.Meta().ExpType)
			}
		})
	}
}

func TestSaveOpenLibrary(t *testing.T) {
	t.Parallel()

	lib := newExampleLibrary(t)
	err := lib.Use(func() error {
		_, err := lib.Save(t.TempDir())

		return err
	})
	require.ErrorIs(t, err, library.ErrLibraryOpen)
}

func TestGetCRDSParameters(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		background []int
		expected   any
	}{
		"first science":   {background: nil, expected: 0},
		"skip background": {background: []int{0}, expected: 1},
		"no science":      {background: []int{0, 1, 2}, expected: 0},
	}
	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			asnPath := writeExampleAsn(t)
			if len(tc.background) > 0 {
				setMemberAttr(t, asnPath, "exptype", "background", tc.background...)
			}
			lib, err := library.New(newBackend(), asnPath)
			require.NoError(t, err)

			params, err := lib.GetCRDSParameters()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, params["index"])
			assert.Equal(t, "pool", params["meta.asn.pool_name"])
			assert.False(t, lib.IsOpen())
			assert.Empty(t, lib.Borrowed())
		})
	}
}

func TestGetCRDSParametersEmpty(t *testing.T) {
	t.Parallel()

	lib, err := library.New(newBackend(), []library.Model{})
	require.NoError(t, err)
	_, err = lib.GetCRDSParameters()
	require.ErrorIs(t, err, library.ErrIndexOutOfRange)
}
