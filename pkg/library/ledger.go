package library

import "reflect"

// ledger tracks borrowed models by index and by model identity.
type ledger struct {
	byIndex map[int]Model
	byModel map[Model]int
}

func newLedger() *ledger {
	return &ledger{
		byIndex: make(map[int]Model),
		byModel: make(map[Model]int),
	}
}

// hashable reports whether model can key the identity side of the ledger.
func hashable(model Model) bool {
	return reflect.ValueOf(model).Comparable()
}

// put does not check for an existing entry at index, callers must. A model
// that is not hashable is only tracked by index.
func (l *ledger) put(index int, model Model) {
	l.byIndex[index] = model
	if hashable(model) {
		l.byModel[model] = index
	}
}

func (l *ledger) model(index int) (Model, bool) {
	model, ok := l.byIndex[index]

	return model, ok
}

func (l *ledger) index(model Model) (int, bool) {
	if !hashable(model) {
		return 0, false
	}
	index, ok := l.byModel[model]

	return index, ok
}

func (l *ledger) remove(index int) {
	model, ok := l.byIndex[index]
	if !ok {
		return
	}
	delete(l.byIndex, index)
	if !hashable(model) {
		return
	}
	if l.byModel[model] == index {
		delete(l.byModel, model)
	}
}

func (l *ledger) len() int {
	return len(l.byIndex)
}

func (l *ledger) indices() []int {
	res := make([]int, 0, len(l.byIndex))
	for index := range l.byIndex {
		res = append(res, index)
	}

	return res
}
