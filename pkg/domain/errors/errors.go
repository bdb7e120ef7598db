// Package errors defines sentinel errors shared by domain repositories.
//
// Repositories return errors wrapping one of them, so callers can branch with errors.Is.
package errors

import "errors"

var (
	// requested entity is not found
	ErrMissing = errors.New("missing")

	// more entities are found than expected
	ErrTooMuch = errors.New("too much")

	// entity collides with existing one (unique key)
	ErrConflict = errors.New("conflict")

	// entity is not in a state where the operation is allowed
	ErrInvalidState = errors.New("invalid state")

	// input does not satisfy domain rules
	ErrBadInput = errors.New("bad input")
)

// ConflictingField returns the field which collides, if err is a conflict which knows it.
func ConflictingField(err error) string {
	var c interface{ ConflictingField() string }
	if errors.As(err, &c) {
		return c.ConflictingField()
	}
	return ""
}
