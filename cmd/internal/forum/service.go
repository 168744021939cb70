package forum

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clubhouse/cmd/internal/auth"
)

// Publisher receives newly posted messages (e.g., the live feed hub).
// Implementations must not block.
type Publisher interface {
	Publish(Message)
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(Message) {}

// Service applies the board's authorization rules on top of a Store.
type Service struct {
	log   *slog.Logger
	store Store
	pub   Publisher
}

// NewService constructs a Service. A nil publisher defaults to NopPublisher.
func NewService(log *slog.Logger, store Store, pub Publisher) *Service {
	if log == nil {
		log = slog.Default()
	}
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Service{log: log, store: store, pub: pub}
}

// List returns the board, newest first. Listing is public.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	return s.store.List(ctx)
}

// Post creates a message for the acting member.
// Requires an authenticated member; anonymous posting is denied and creates nothing.
func (s *Service) Post(ctx context.Context, now time.Time, actor auth.Context, title, text string) (Message, error) {
	if !actor.Member() {
		return Message{}, ErrNotAllowed
	}

	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if title == "" || text == "" {
		return Message{}, ErrInvalidMessage
	}

	msg, err := s.store.Create(ctx, CreateMessageInput{
		AuthorID: actor.User.ID,
		Title:    title,
		Text:     text,
		Now:      now,
	})
	if err != nil {
		return Message{}, err
	}

	s.log.Info("forum.post", "message_id", msg.ID, "author_id", msg.AuthorID)
	s.pub.Publish(msg)
	return msg, nil
}

// Delete removes a message. Deletion requires an authenticated member, and
// only the message's author or an admin may remove it.
func (s *Service) Delete(ctx context.Context, actor auth.Context, messageID string) error {
	if !actor.Member() {
		return ErrNotAllowed
	}

	msg, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if msg.AuthorID != actor.User.ID && !actor.User.Admin {
		return ErrNotAllowed
	}

	if err := s.store.Delete(ctx, messageID); err != nil {
		return err
	}

	s.log.Info("forum.delete", "message_id", messageID, "actor_id", actor.User.ID)
	return nil
}
