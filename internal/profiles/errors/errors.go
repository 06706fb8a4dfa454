package errors

import "errors"

var (
	ErrNotFound = errors.New("profile not found")

	ErrDuplicateUser = errors.New("profile already exists for user")
)
