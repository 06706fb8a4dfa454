package kafka

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")

	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")

	// ErrPermanentFailure marks an error that retrying cannot fix
	// (undecodable payload, unknown schema). Goes straight to the DLQ.
	ErrPermanentFailure = errors.New("permanent failure")
)

// Permanent wraps err so the consumer skips retries and dead-letters
// the message immediately.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
}

// ShouldRetry reports whether a failed message should be handed back to
// the handler. Context cancellation and permanent errors never retry.
func ShouldRetry(err error, retries, maxRetries int) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrPermanentFailure) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return retries < maxRetries
}
