package reservation

import "errors"

var (
	// ErrNotFound means the reservation id (or phone lookup) matched nothing.
	ErrNotFound = errors.New("reservation not found")
	// ErrNotApplicable means the reservation exists but its current status
	// does not admit the requested command. Repeated delivery of the same
	// administrative command lands here instead of double-mutating.
	ErrNotApplicable = errors.New("reservation status does not admit this operation")
	// ErrInvalidTransition means the requested status movement goes backward.
	ErrInvalidTransition = errors.New("reservation status may only move forward")
)
