package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	pkgerrors "github.com/pkg/errors"
)

const subscriptionBuffer = 16

// Hub hands daemon events to every open event stream. A stream that falls
// behind by more than its buffer loses events; the publisher never waits.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	dropped atomic.Uint64
}

// Subscription is one stream's view of a Hub. C is closed by Close.
type Subscription struct {
	C <-chan Event

	ch   chan Event
	hub  *Hub
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, subscriptionBuffer)
	s := &Subscription{C: ch, ch: ch, hub: h}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Close detaches the subscription. It may be called more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts events lost to full subscription buffers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Publish encodes payload once and queues it on every subscription.
func (h *Hub) Publish(name string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode %s event", name)
	}
	ev := Event{Name: name, Data: b}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}
