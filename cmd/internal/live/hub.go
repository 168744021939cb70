package live

import (
	"log/slog"
	"sync"

	"clubhouse/cmd/internal/forum"
)

// Hub fans newly posted messages out to every connected subscriber. It holds
// no history; persistence lives behind forum.Store.
type Hub struct {
	log *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

// NewHub constructs a Hub instance.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:         log,
		subscribers: make(map[string]*Subscriber),
	}
}

// Subscribe registers a subscriber with the hub.
func (h *Hub) Subscribe(s *Subscriber) {
	h.mu.Lock()
	h.subscribers[s.ID] = s
	h.mu.Unlock()
}

// Unsubscribe removes a subscriber. Safe to call for unknown IDs.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	delete(h.subscribers, id)
	h.mu.Unlock()
}

// Len reports the current subscriber count.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish implements forum.Publisher; it never blocks the poster.
func (h *Hub) Publish(m forum.Message) {
	h.Broadcast(messageEvent(m))
}

// Broadcast enqueues an event on every subscriber. Slow subscribers have the
// event dropped rather than stalling the rest of the feed. Standard
// subscribers receive the event with author attribution stripped; only club
// members and admins see who posted, same as the board page.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	redacted := ev.withoutAttribution()
	for _, s := range h.subscribers {
		out := ev
		if !s.Privileged {
			out = redacted
		}
		select {
		case <-s.Done():
		case s.Send <- out:
		default:
			h.log.Info("live.drop", "subscriber_id", s.ID, "type", ev.Type)
		}
	}
}
