// Package state defines the persistence boundary for portfolio documents.
//
// Responsibilities:
//   - Store loads, saves, deletes and lists whole Portfolio documents and
//     enforces slug uniqueness: a slug owned by another user is ErrSlugTaken,
//     a second document of the same owner claiming a slug is ErrDuplicateSlug.
//   - Service sits between the editor and a Store. It takes an already
//     resolved Identity, generates missing slugs, validates the document,
//     rejects empty documents with ErrNothingToSave and emits activity.
//   - MemoryStore is the in-process Store used by tests and examples; the
//     sqlite subpackage is the durable one.
//
// Concurrency control:
//
//	Meta.ETag identifies a stored revision. Passing the ETag you loaded to
//	Save makes a concurrent overwrite fail with ErrETagMismatch; an empty
//	ETag saves unconditionally.
package state
