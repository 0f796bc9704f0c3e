package widget

import (
	"encoding/json"
	"sync"
)

// Event is a success/failure notification from the payment provider. The
// provider's channel is process-wide and unscoped: events are not addressed
// to a particular payment, so Detail is forwarded verbatim and Reference is
// informational only.
type Event struct {
	Success   bool
	Reference string
	Detail    json.RawMessage
}

// Bus fans provider events out to current subscribers. Events published
// while nobody is subscribed are dropped, like a DOM event with no listener.
type Bus struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: map[*Subscription]struct{}{}}
}

type Subscription struct {
	C   chan Event
	bus *Bus
}

func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{C: make(chan Event, 1), bus: b}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.C <- ev:
		default:
			// Only the first event after arming is authoritative; a full
			// buffer means the subscriber already has one.
		}
	}
}

// Cancel removes the subscription and closes its channel. Safe to call once.
func (s *Subscription) Cancel() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if _, ok := s.bus.subs[s]; !ok {
		return
	}
	delete(s.bus.subs, s)
	close(s.C)
}
