package session

import (
	"context"
	"sync"
	"time"

	"clubhouse/cmd/identity/ids"
)

// MemoryStore is an in-memory session Store for dev mode and tests.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]Row
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Row)}
}

// Create creates a new session row and returns its ID.
func (s *MemoryStore) Create(ctx context.Context, now time.Time, userID string, expiresAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return "", err
	}

	lu := now

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[id] = Row{
		ID:         id,
		UserID:     userID,
		CreatedAt:  now,
		LastUsedAt: &lu,
		ExpiresAt:  expiresAt,
	}
	return id, nil
}

// GetByID loads a session row by ID.
func (s *MemoryStore) GetByID(ctx context.Context, sessionID string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[sessionID]
	if !ok {
		return Row{}, ErrSessionNotFound
	}
	return row, nil
}

// Touch updates last_used_at for a session.
func (s *MemoryStore) Touch(ctx context.Context, now time.Time, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	lu := now
	row.LastUsedAt = &lu
	s.rows[sessionID] = row
	return nil
}

// Revoke revokes a single session (idempotent).
func (s *MemoryStore) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[sessionID]
	if !ok || row.RevokedAt != nil {
		return nil
	}
	ra := now
	row.RevokedAt = &ra
	s.rows[sessionID] = row
	return nil
}

// RevokeAll revokes all sessions for a user (idempotent).
func (s *MemoryStore) RevokeAll(ctx context.Context, now time.Time, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, row := range s.rows {
		if row.UserID != userID || row.RevokedAt != nil {
			continue
		}
		ra := now
		row.RevokedAt = &ra
		s.rows[id] = row
	}
	return nil
}
