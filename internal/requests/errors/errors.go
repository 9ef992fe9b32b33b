package errors

import "errors"

var (
	ErrNotFound = errors.New("bus request not found")

	ErrInvalidID = errors.New("invalid bus request ID format")

	// ErrNotPending signals a conditional status flip that matched no
	// pending record: either the id is gone or another moderator won
	// the race.
	ErrNotPending = errors.New("bus request is not pending")
)
