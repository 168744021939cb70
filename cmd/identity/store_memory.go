package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used in dev mode (no database configured)
// and in tests. All operations are guarded by a single mutex, which gives the
// per-record atomicity the auth layer relies on.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]User
	byHandle map[string]string // handle -> id, case-sensitive
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]User),
		byHandle: make(map[string]string),
	}
}

// Create inserts a new member record.
func (s *MemoryStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.Create"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	handle := strings.TrimSpace(in.Handle)
	if handle == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "handle is required"}
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byHandle[handle]; exists {
		return User{}, ConflictError{Op: op, Field: "handle"}
	}

	u := User{
		ID:           id,
		Handle:       handle,
		PasswordHash: in.PasswordHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Status:       StatusStandard,
		Admin:        in.Admin,
		CreatedAt:    now,
	}
	s.byID[id] = u
	s.byHandle[handle] = id

	return u, nil
}

// GetByHandle loads a member by handle (case-sensitive exact match).
func (s *MemoryStore) GetByHandle(ctx context.Context, handle string) (User, error) {
	const op = "identity.GetByHandle"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byHandle[handle]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "member"}
	}
	return s.byID[id], nil
}

// GetByID loads a member by its storage key.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetByID"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "member"}
	}
	return u, nil
}

// Promote escalates a member to privileged status (no-op if already privileged).
func (s *MemoryStore) Promote(ctx context.Context, id string, now time.Time) (User, error) {
	const op = "identity.Promote"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "member"}
	}

	u.Status = StatusPrivileged
	s.byID[id] = u
	return u, nil
}

// Delete removes a member record. It exists for tests exercising the
// "referenced identity no longer exists" session path; the web layer never
// deletes members.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: "identity.Delete", Resource: "member"}
	}
	delete(s.byID, id)
	delete(s.byHandle, u.Handle)
	return nil
}
