package domain

import "errors"

var (
	// ErrValidation marks errors caused by invalid caller input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups for entities that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks state transitions that are not allowed from the current state.
	ErrConflict = errors.New("conflict")
)
