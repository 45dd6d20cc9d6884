package window

import "errors"

var (
	// ErrInvalidHop is returned when a hop is outside [1, len(w)].
	ErrInvalidHop = errors.New("window: hop out of range")
	// ErrUnknownType is returned by ParseType for unrecognised names.
	ErrUnknownType = errors.New("window: unknown type")
)
