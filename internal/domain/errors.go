package domain

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a create would violate a uniqueness rule,
// e.g. a participant name already taken within a session.
var ErrConflict = errors.New("conflict")

// ErrInvalidInput is returned for malformed input rejected at the boundary.
var ErrInvalidInput = errors.New("invalid input")
