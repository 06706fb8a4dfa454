package errors

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")

	ErrInvalidID = errors.New("invalid conversation ID format")
)
