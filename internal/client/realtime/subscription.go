package realtime

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription is a registered handler. Close unregisters it; closing
// twice is harmless.
type Subscription struct {
	id      string
	topic   string
	handler Handler
	active  atomic.Bool
	owner   *Channel
}

func newSubscription(owner *Channel, topic string, h Handler) *Subscription {
	s := &Subscription{
		id:      uuid.NewString(),
		topic:   topic,
		handler: h,
		owner:   owner,
	}
	s.active.Store(true)
	return s
}

func (s *Subscription) ID() string    { return s.id }
func (s *Subscription) Topic() string { return s.topic }

// Active reports whether the handler can still be invoked.
func (s *Subscription) Active() bool { return s.active.Load() }

func (s *Subscription) Close() {
	if s == nil || !s.active.Load() {
		return
	}
	s.owner.Off(s.topic, s)
}
