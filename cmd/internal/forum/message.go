package forum

import "time"

// Message is one board entry.
type Message struct {
	ID       string
	AuthorID string

	Title string
	Text  string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Author attribution, joined at read time. Empty when the author record
	// no longer exists.
	AuthorHandle string
	AuthorName   string
}
