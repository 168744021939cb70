package forum

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/identity/ids"
)

// MemoryStore is an in-memory Store for dev mode and tests.
//
// Author attribution is joined against the identity store at read time, the
// same way the Postgres implementation joins against the members table.
type MemoryStore struct {
	mu    sync.Mutex
	msgs  map[string]Message
	users identity.Store
}

// NewMemoryStore constructs an empty MemoryStore. users may be nil, in which
// case attribution stays empty.
func NewMemoryStore(users identity.Store) *MemoryStore {
	return &MemoryStore{
		msgs:  make(map[string]Message),
		users: users,
	}
}

// Create persists a message.
func (s *MemoryStore) Create(ctx context.Context, in CreateMessageInput) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	if strings.TrimSpace(in.AuthorID) == "" {
		return Message{}, ErrInvalidMessage
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		ID:        id,
		AuthorID:  in.AuthorID,
		Title:     in.Title,
		Text:      in.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.msgs[id] = msg
	s.mu.Unlock()

	return s.withAuthor(ctx, msg), nil
}

// GetByID loads a message.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	s.mu.Lock()
	msg, ok := s.msgs[id]
	s.mu.Unlock()

	if !ok {
		return Message{}, ErrNotFound
	}
	return s.withAuthor(ctx, msg), nil
}

// List returns all messages, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	out := make([]Message, 0, len(s.msgs))
	for _, m := range s.msgs {
		out = append(out, m)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	for i := range out {
		out[i] = s.withAuthor(ctx, out[i])
	}
	return out, nil
}

// Delete removes a message.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.msgs[id]; !ok {
		return ErrNotFound
	}
	delete(s.msgs, id)
	return nil
}

func (s *MemoryStore) withAuthor(ctx context.Context, msg Message) Message {
	if s.users == nil {
		return msg
	}
	u, err := s.users.GetByID(ctx, msg.AuthorID)
	if err != nil {
		return msg
	}
	msg.AuthorHandle = u.Handle
	msg.AuthorName = u.FullName()
	return msg
}
