// Package apperr defines the error taxonomy shared by the core components.
// Handlers map these to HTTP statuses with errors.Is; any of them returned
// inside a storage transaction aborts it.
package apperr

import "errors"

var (
	// ErrNotFound is returned by write paths that reference an unknown
	// part, model, engine or suggestion. Read paths report absence as an
	// empty result instead.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRelation rejects self-referential analog edges.
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrInvalidStateTransition rejects re-deciding an already moderated
	// suggestion.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrMissingReference means a referenced entity vanished between
	// suggestion creation and approval.
	ErrMissingReference = errors.New("missing reference")

	// ErrConstraintViolation covers uniqueness clashes that genuinely
	// conflict instead of resolving through an upsert.
	ErrConstraintViolation = errors.New("constraint violation")
)
