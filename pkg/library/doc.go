// Package library provides a model library: the resource manager owning the data models of an
// association.
//
// An association is a manifest listing the member files that belong together, with their exposure type and
// group id. A Library is built from an association file, an in-memory manifest or a list of models, and owns
// the models for its lifetime. The member order never changes, so the index of a member identifies its model.
//
// Models are borrowed from the library while it is open and must be shelved before it closes. Closing a
// library with borrowed models returns ErrBorrow, unless the scope is already failing, in which case the
// original error is kept:
//
//	err := lib.Use(func() error {
//		model, err := lib.Borrow(0)
//		if err != nil {
//			return err
//		}
//		model.Meta().GroupID = "new"
//		return lib.Shelve(model)
//	})
//
// Two storage strategies are available. By default every model stays in memory once opened. With OnDisk, a
// shelved model is written to a private temporary directory and read back on the next borrow, so a large
// association can be processed without holding every model in memory, and the member files are never
// modified.
//
// Group ids are computed when the library is built, from the member files when the association does not
// list them, so GroupNames and GroupIndices never open a model. A member without any group id gets a
// synthetic one, "exposure0001" for the first member and so on.
//
// The library is not safe for concurrent use.
package library
