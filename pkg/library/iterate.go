package library

import (
	"github.com/pkg/errors"
)

// Iterator borrows the models of a library in index order. Borrowed models
// are not shelved by the iterator.
//
//	it := lib.Iter()
//	for it.Next() {
//		// use it.Model()
//		err := lib.Shelve(it.Model())
//	}
//	err := it.Err()
type Iterator struct {
	lib   *Library
	next  int
	index int
	model Model
	err   error
}

// Iter returns an iterator over the models. The library must be open.
func (l *Library) Iter() *Iterator {
	return &Iterator{lib: l, index: -1}
}

// Next borrows the next model. It returns false at the end or on error.
func (it *Iterator) Next() bool {
	if it.err != nil || it.next >= it.lib.Len() {
		return false
	}
	model, err := it.lib.Borrow(it.next)
	if err != nil {
		it.err = err

		return false
	}
	it.index, it.model = it.next, model
	it.next++

	return true
}

// Index returns the index of the current model.
func (it *Iterator) Index() int {
	return it.index
}

// Model returns the current model.
func (it *Iterator) Model() Model {
	return it.model
}

// Err returns the error that stopped the iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Mapper lazily applies a function to every model of a library. It opens the
// library on the first call to Next and closes it once exhausted.
//
// Each model stays borrowed until the following call to Next. A caller that
// stops before the end must call Close, which shelves the current model.
type Mapper[T any] struct {
	lib    *Library
	fn     func(model Model, index int) (T, error)
	modify bool

	next     int
	index    int
	current  Model
	borrowed bool
	value    T

	started bool
	done    bool
	err     error
}

// MapFunction returns a Mapper calling fn on every model. modify is passed to
// Shelve for every model.
func MapFunction[T any](lib *Library, fn func(model Model, index int) (T, error), modify bool) *Mapper[T] {
	return &Mapper[T]{
		lib:    lib,
		fn:     fn,
		modify: modify,
	}
}

// Next calls the function on the next model.
func (mp *Mapper[T]) Next() bool {
	if mp.done {
		return false
	}
	if !mp.started {
		err := mp.lib.Open()
		if err != nil {
			mp.done, mp.err = true, err

			return false
		}
		mp.started = true
	}

	err := mp.release()
	if err != nil {
		mp.abort(err)

		return false
	}
	if mp.next >= mp.lib.Len() {
		mp.done = true
		mp.err = mp.lib.Close()

		return false
	}

	model, err := mp.lib.Borrow(mp.next)
	if err != nil {
		mp.abort(err)

		return false
	}
	mp.current, mp.index, mp.borrowed = model, mp.next, true
	mp.next++

	value, err := mp.fn(model, mp.index)
	if err != nil {
		// the function error wins over a failing shelve
		_ = mp.release()
		mp.abort(errors.Wrapf(err, "unable to map model %d", mp.index))

		return false
	}
	mp.value = value

	return true
}

// Value returns the result of the last call.
func (mp *Mapper[T]) Value() T {
	return mp.value
}

// Err returns the error that stopped the mapper, if any.
func (mp *Mapper[T]) Err() error {
	return mp.err
}

// Close shelves the current model and closes the library. It is a no-op once
// the mapper is exhausted.
func (mp *Mapper[T]) Close() error {
	if mp.done {
		return nil
	}
	mp.done = true
	if !mp.started {
		return nil
	}
	err := mp.release()
	mp.lib.open = false

	return err
}

// Collect drains the mapper and returns every result in index order.
func (mp *Mapper[T]) Collect() ([]T, error) {
	defer mp.Close()

	res := []T{}
	for mp.Next() {
		res = append(res, mp.Value())
	}

	return res, mp.Err()
}

func (mp *Mapper[T]) release() error {
	if !mp.borrowed {
		return nil
	}
	mp.borrowed = false

	return mp.lib.Shelve(mp.current, ShelveIndex(mp.index), ShelveModify(mp.modify))
}

func (mp *Mapper[T]) abort(err error) {
	mp.done, mp.err = true, err
	mp.lib.open = false
}
