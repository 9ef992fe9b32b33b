package errors

import "errors"

var (
	ErrNotFound = errors.New("bus not found")

	ErrInvalidID = errors.New("invalid bus ID format")
)
