package stream

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/transport"
)

// Hub fans order events out to live subscribers. A subscriber whose buffer
// is full is dropped instead of blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	orderID uuid.UUID
	ch      chan transport.OrderEvent
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers for events of one order, or of every order when
// orderID is uuid.Nil. The returned func unsubscribes; it is safe to call
// more than once.
func (h *Hub) Subscribe(orderID uuid.UUID, buffer int) (<-chan transport.OrderEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscriber{orderID: orderID, ch: make(chan transport.OrderEvent, buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub.ch, func() { h.remove(sub) }
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
}

func (h *Hub) Notify(ev transport.OrderEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if sub.orderID != uuid.Nil && sub.orderID != ev.Order.ID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			delete(h.subs, sub)
			close(sub.ch)
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription. Later subscriptions receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
}
