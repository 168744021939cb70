package session

import (
	"context"
	"time"
)

// Row mirrors the clubhouse.sessions row used by the session subsystem.
type Row struct {
	ID         string
	UserID     string
	CreatedAt  time.Time
	LastUsedAt *time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}

// Store abstracts persistence for session state.
//
// Revoke must be idempotent: revoking an already revoked or missing session
// is not an error. Two concurrent Creates for the same user both succeed;
// there is no single-session-per-user invariant.
type Store interface {
	// Create creates a new session row and returns its ID.
	Create(ctx context.Context, now time.Time, userID string, expiresAt time.Time) (sessionID string, err error)

	// GetByID loads a session row by ID. Missing -> ErrSessionNotFound.
	GetByID(ctx context.Context, sessionID string) (Row, error)

	// Touch updates last_used_at for a session (best-effort).
	Touch(ctx context.Context, now time.Time, sessionID string) error

	// Revoke revokes a single session (idempotent).
	Revoke(ctx context.Context, now time.Time, sessionID string) error

	// RevokeAll revokes all sessions for a user (idempotent).
	RevokeAll(ctx context.Context, now time.Time, userID string) error
}
