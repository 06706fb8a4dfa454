package errors

import "errors"

var (
	ErrNotFound = errors.New("KYC request not found")

	ErrInvalidID = errors.New("invalid KYC request ID format")
)
