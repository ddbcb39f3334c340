package service

import "errors"

var (
	// ErrInvalidAction is returned when a moderation action is outside the
	// enumerated set (approve, reject).
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidStatus is returned when a target status is outside the
	// enumerated set for the entity.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition is returned when a target status is valid but
	// not reachable from the record's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
