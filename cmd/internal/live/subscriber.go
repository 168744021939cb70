package live

import "sync"

// Subscriber represents one connected feed listener.
//
// Send is intentionally NOT closed by the hub to keep broadcast safe under
// concurrency; done signals goroutines to stop instead. Close is idempotent.
type Subscriber struct {
	ID     string
	UserID string
	// Privileged mirrors the member's club status at connect time. The hub
	// strips author attribution from events sent to standard subscribers.
	Privileged bool
	Send       chan Event

	done      chan struct{}
	closeOnce sync.Once
}

// NewSubscriber constructs a Subscriber with a bounded send queue.
func NewSubscriber(id, userID string, privileged bool, sendQueueSize int) *Subscriber {
	if sendQueueSize <= 0 {
		sendQueueSize = 64
	}
	return &Subscriber{
		ID:         id,
		UserID:     userID,
		Privileged: privileged,
		Send:       make(chan Event, sendQueueSize),
		done:       make(chan struct{}),
	}
}

// Done returns a channel that is closed when the subscriber is shutting down.
func (s *Subscriber) Done() <-chan struct{} {
	if s == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.done
}

// Close signals the subscriber goroutines to stop (idempotent).
// It does NOT close Send.
func (s *Subscriber) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
