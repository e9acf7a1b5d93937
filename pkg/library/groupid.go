package library

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// syntheticGroupID is used when a member carries no group id of its own.
// It is only unique within one library.
func syntheticGroupID(index int) string {
	return fmt.Sprintf("exposure%04d", index+1)
}

func fallbackGroupID(index int, groupID string, err error) (string, error) {
	if errors.Is(err, ErrNoGroupID) {
		return syntheticGroupID(index), nil
	}
	if err != nil {
		return "", err
	}

	return groupID, nil
}

func groupIDFromModel(backend Backend, index int, model Model) (string, error) {
	groupID, err := backend.ModelToGroupID(model)
	groupID, err = fallbackGroupID(index, groupID, err)
	if err != nil {
		return "", errors.Wrapf(err, "unable to get group id of model %d", index)
	}

	return groupID, nil
}

// resolveGroupIDs fills in the group id of every member lacking one, reading
// it from the member file. At most concurrent files are read at once.
func resolveGroupIDs(backend Backend, members []member, base string, concurrent int) error {
	if concurrent < 1 {
		concurrent = 1
	}
	resolved := make([]string, len(members))
	errGrp := errgroup.Group{}
	errGrp.SetLimit(concurrent)
	for i, m := range members {
		if _, ok := m.groupID(); ok {
			continue
		}
		localIdx, path := i, m.path(base)
		errGrp.Go(func() error {
			groupID, err := backend.FilenameToGroupID(path)
			groupID, err = fallbackGroupID(localIdx, groupID, err)
			if err != nil {
				return errors.Wrapf(err, "unable to get group id of %s", path)
			}
			resolved[localIdx] = groupID

			return nil
		})
	}
	err := errGrp.Wait()
	if err != nil {
		return err
	}

	// members are only written once every read succeeded
	for i, m := range members {
		if _, ok := m.groupID(); !ok {
			m[keyGroupID] = resolved[i]
		}
	}

	return nil
}
