package library_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stpipe/pkg/datamodel"
	"github.com/askiada/go-stpipe/pkg/library"
)

func TestMapFunctionCollect(t *testing.T) {
	t.Parallel()

	for _, initType := range initTypes {
		initType := initType
		t.Run(initType, func(t *testing.T) {
			t.Parallel()

			lib, err := newLibraryFromInit(t, writeExampleAsn(t), initType)
			require.NoError(t, err)

			res, err := library.MapFunction(lib, func(model library.Model, index int) (string, error) {
				assert.True(t, lib.IsOpen())

				return model.Meta().GroupID, nil
			}, false).Collect()
			require.NoError(t, err)
			assert.Equal(t, exampleGroupIDs, res)
			assert.False(t, lib.IsOpen())
			assert.Empty(t, lib.Borrowed())
		})
	}
}

func TestMapFunctionLazy(t *testing.T) {
	t.Parallel()

	lib := newExampleLibrary(t)
	calls := 0
	mapper := library.MapFunction(lib, func(model library.Model, index int) (int, error) {
		calls++

		return index, nil
	}, false)
	assert.Zero(t, calls)
	assert.False(t, lib.IsOpen())

	require.True(t, mapper.Next())
	assert.Equal(t, 0, mapper.Value())
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{0}, lib.Borrowed())

	require.True(t, mapper.Next())
	assert.Equal(t, []int{1}, lib.Borrowed())

	require.NoError(t, mapper.Close())
	assert.False(t, lib.IsOpen())
	assert.Empty(t, lib.Borrowed())
	assert.False(t, mapper.Next())
	require.NoError(t, mapper.Close())

	// the library can be used again
	res, err := library.MapFunction(lib, func(model library.Model, index int) (int, error) {
		return index, nil
	}, false).Collect()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res)
}

func TestMapFunctionError(t *testing.T) {
	t.Parallel()

	errMap := errors.New("map failed")
	lib := newExampleLibrary(t)
	res, err := library.MapFunction(lib, func(model library.Model, index int) (int, error) {
		if index == 1 {
			return 0, errMap
		}

		return index, nil
	}, false).Collect()
	require.ErrorIs(t, err, errMap)
	assert.Contains(t, err.Error(), "model 1")
	assert.Equal(t, []int{0}, res)
	assert.False(t, lib.IsOpen())
	assert.Empty(t, lib.Borrowed())
}

func TestMapFunctionOpenLibrary(t *testing.T) {
	t.Parallel()

	lib := newExampleLibrary(t)
	err := lib.Use(func() error {
		_, err := library.MapFunction(lib, func(model library.Model, index int) (int, error) {
			return index, nil
		}, false).Collect()

		return err
	})
	require.ErrorIs(t, err, library.ErrLibraryOpen)
}

func TestMapFunctionModify(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		modify   bool
		expected any
	}{
		"discarded": {modify: false, expected: nil},
		"kept":      {modify: true, expected: "mapped"},
	}
	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lib := newExampleLibrary(t, library.OnDisk(), library.WithTempDir(t.TempDir()))
			_, err := library.MapFunction(lib, func(model library.Model, index int) (struct{}, error) {
				model.(*datamodel.DataModel).Data["value"] = "mapped"

				return struct{}{}, nil
			}, tc.modify).Collect()
			require.NoError(t, err)

			for i := range exampleGroupIDs {
				assert.Equal(t, tc.expected, borrowData(t, lib, i)["value"])
			}
		})
	}
}

func TestFinalize(t *testing.T) {
	t.Parallel()

	lib := newExampleLibrary(t, library.OnDisk(), library.WithTempDir(t.TempDir()))
	err := lib.Finalize(func(model library.Model, index int) error {
		model.Meta().TweakregCatalog = "catalog.ecsv"

		return nil
	})
	require.NoError(t, err)

	for _, model := range libraryModels(t, lib) {
		assert.Equal(t, "catalog.ecsv", model.Meta().TweakregCatalog)
	}

	errFinal := errors.New("finalize failed")
	err = lib.Finalize(func(library.Model, int) error { return errFinal })
	require.ErrorIs(t, err, errFinal)
	assert.False(t, lib.IsOpen())
}
