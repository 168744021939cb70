package identity

import (
	"context"
	"time"
)

// CreateUserInput describes a validated signup.
// PasswordHash must already be an encoded Argon2id digest; this layer never
// sees plaintext passwords.
type CreateUserInput struct {
	Handle       string
	PasswordHash string
	FirstName    string
	LastName     string
	Admin        bool
	Now          time.Time
}

// Store is the membership persistence boundary.
//
// Handle lookups are case-sensitive exact matches. Promote is the single
// mutation path for Status and must be atomic per record; it only ever moves
// standard -> privileged.
type Store interface {
	Create(ctx context.Context, in CreateUserInput) (User, error)
	GetByHandle(ctx context.Context, handle string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)

	// Promote escalates the member to StatusPrivileged and returns the
	// updated record. Promoting an already privileged member is a no-op
	// success. A missing member returns ErrNotFound.
	Promote(ctx context.Context, id string, now time.Time) (User, error)
}
