package pipeline_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stpipe/pkg/datamodel"
	"github.com/askiada/go-stpipe/pkg/library"
	"github.com/askiada/go-stpipe/pkg/pipeline"
)

const testObservatory = "test"

// newTestLibrary saves n models in a temporary directory and returns a
// library over them. Model i has exposure type exptypes[i%len(exptypes)].
func newTestLibrary(t *testing.T, n int, exptypes ...string) *library.Library {
	t.Helper()

	if len(exptypes) == 0 {
		exptypes = []string{"science"}
	}
	dir := t.TempDir()
	members := []any{}
	for i := 0; i < n; i++ {
		model := datamodel.New(fmt.Sprintf("model%d.asdf", i))
		model.Meta().GroupID = fmt.Sprintf("group%d", i%2)
		model.Data["index"] = i
		require.NoError(t, model.Save(filepath.Join(dir, model.Meta().Filename)))
		members = append(members, map[string]any{
			"expname": model.Meta().Filename,
			"exptype": exptypes[i%len(exptypes)],
		})
	}
	manifest := library.Manifest{
		"products": []any{map[string]any{"name": "product", "members": members}},
	}
	lib, err := library.New(datamodel.NewBackend(testObservatory), manifest, library.WithBaseDir(dir))
	require.NoError(t, err)

	return lib
}

// recorder collects the names and parameters of the steps it runs.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	params map[string]pipeline.Params
}

func newRecorder() *recorder {
	return &recorder{params: make(map[string]pipeline.Params)}
}

func (r *recorder) step(name string) pipeline.StepFunc {
	return func(_ context.Context, _ *library.Library, params pipeline.Params) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)
		r.params[name] = params

		return nil
	}
}

func (r *recorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.calls...)
}

func modelData(t *testing.T, lib *library.Library) []map[string]any {
	t.Helper()

	res, err := library.MapFunction(lib, func(model library.Model, _ int) (map[string]any, error) {
		return model.(*datamodel.DataModel).Data, nil
	}, false).Collect()
	require.NoError(t, err)

	return res
}
