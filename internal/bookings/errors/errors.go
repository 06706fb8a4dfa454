package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrListingNotFound = errors.New("listing not found")

	ErrAlreadyDecided = errors.New("booking request already decided")
)
