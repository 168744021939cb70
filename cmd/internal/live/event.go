package live

import (
	"time"

	"clubhouse/cmd/internal/forum"
)

const (
	// TypeMessageNew announces a freshly posted board message.
	TypeMessageNew = "message.new"
)

// Event is the wire envelope for the live feed.
type Event struct {
	Type    string          `json:"type"`
	TS      time.Time       `json:"ts"`
	Message *MessagePayload `json:"message,omitempty"`
}

// MessagePayload carries a board message over the feed. Author attribution is
// only delivered to privileged subscribers; the hub strips it for everyone
// else, matching what the board page shows each viewer.
type MessagePayload struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	AuthorHandle string    `json:"author_handle,omitempty"`
	AuthorName   string    `json:"author_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func messageEvent(m forum.Message) Event {
	return Event{
		Type: TypeMessageNew,
		TS:   time.Now().UTC(),
		Message: &MessagePayload{
			ID:           m.ID,
			Title:        m.Title,
			Text:         m.Text,
			AuthorHandle: m.AuthorHandle,
			AuthorName:   m.AuthorName,
			CreatedAt:    m.CreatedAt,
		},
	}
}

// withoutAttribution returns a copy of the event with the author identity
// removed. The payload is copied, never mutated, because the original event
// is still delivered to privileged subscribers.
func (ev Event) withoutAttribution() Event {
	if ev.Message == nil || (ev.Message.AuthorHandle == "" && ev.Message.AuthorName == "") {
		return ev
	}
	msg := *ev.Message
	msg.AuthorHandle = ""
	msg.AuthorName = ""
	ev.Message = &msg
	return ev
}
