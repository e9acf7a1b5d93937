package steps

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-stpipe/pkg/datamodel"
	"github.com/askiada/go-stpipe/pkg/library"
	"github.com/askiada/go-stpipe/pkg/pipeline"
)

// Names the built-in steps are registered under.
const (
	// UpdateData sets each parameter as a data key of every model.
	UpdateData = "update_data"
	// SetExpType sets the exposure type of every model from the exptype
	// parameter.
	SetExpType = "set_exptype"
	// LogGroups logs the member indices of each group.
	LogGroups = "log_groups"
)

func init() {
	pipeline.MustRegister(UpdateData, updateData)
	pipeline.MustRegister(SetExpType, setExpType)
	pipeline.MustRegister(LogGroups, logGroups)
}

// updateData sets every parameter as a data key of every model.
func updateData(ctx context.Context, lib *library.Library, params pipeline.Params) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := lib.Finalize(func(model library.Model, index int) error {
		dm, ok := model.(*datamodel.DataModel)
		if !ok {
			return errors.Wrapf(ErrUnsupportedModel, "%T", model)
		}
		for _, k := range keys {
			dm.Data[k] = params[k]
		}

		return nil
	})
	if err != nil {
		return err
	}
	pipeline.Logger(ctx).Debug("data updated", "keys", keys, "models", lib.Len())

	return nil
}

// setExpType sets the exposure type of every model from the exptype parameter.
func setExpType(ctx context.Context, lib *library.Library, params pipeline.Params) error {
	exptype, ok := params.String("exptype")
	if !ok || exptype == "" {
		return errors.Wrap(ErrMissingParameter, "exptype")
	}

	return lib.Finalize(func(model library.Model, _ int) error {
		model.Meta().ExpType = exptype

		return nil
	})
}

// logGroups logs the members of every group without opening any model.
func logGroups(ctx context.Context, lib *library.Library, _ pipeline.Params) error {
	logger := pipeline.Logger(ctx)
	groups := lib.GroupIndices()
	for _, name := range lib.GroupNames() {
		logger.Info("group", "group_id", name, "indices", groups[name])
	}

	return nil
}
