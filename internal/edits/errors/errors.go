package errors

import "errors"

var (
	ErrNotFound = errors.New("bus edit request not found")

	ErrInvalidID = errors.New("invalid bus edit request ID format")

	ErrNotPending = errors.New("bus edit request is not pending")
)
