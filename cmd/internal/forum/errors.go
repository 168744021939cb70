package forum

import "errors"

var (
	// ErrNotAllowed means the caller's authorization decision does not
	// permit the operation.
	ErrNotAllowed = errors.New("not allowed")

	// ErrNotFound means the message does not exist.
	ErrNotFound = errors.New("message not found")

	// ErrInvalidMessage means the title or text was empty after trimming.
	ErrInvalidMessage = errors.New("invalid message")
)
