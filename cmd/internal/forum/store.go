package forum

import (
	"context"
	"time"
)

// CreateMessageInput describes a new board entry.
type CreateMessageInput struct {
	AuthorID string
	Title    string
	Text     string
	Now      time.Time
}

// Store abstracts message persistence.
type Store interface {
	Create(ctx context.Context, in CreateMessageInput) (Message, error)

	// GetByID loads a message. Missing -> ErrNotFound.
	GetByID(ctx context.Context, id string) (Message, error)

	// List returns all messages, newest first, with author attribution joined.
	List(ctx context.Context) ([]Message, error)

	// Delete removes a message. Missing -> ErrNotFound.
	Delete(ctx context.Context, id string) error
}
