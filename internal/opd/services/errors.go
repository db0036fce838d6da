package services

import "errors"

var (
	// ErrNotFound is returned when a referenced entry, department or
	// patient does not exist.
	ErrNotFound = errors.New("not found")

	// ErrQueueEmpty is the explicit empty result of the priority dispatch
	// queue. It is not a failure; callers branch on it.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrValidation marks a malformed event or request payload.
	ErrValidation = errors.New("validation failed")
)
