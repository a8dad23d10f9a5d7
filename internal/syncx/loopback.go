package syncx

import (
	"context"
	"sync"
)

// Hub is an in-process broadcast channel: every member joined to one hub
// receives signals published by any other member, sender excluded. It
// mirrors BroadcastChannel semantics for tests and single-binary
// multi-store setups.
type Hub struct {
	mu      sync.Mutex
	members []*Loopback
}

func NewHub() *Hub { return &Hub{} }

func (h *Hub) Join() *Loopback {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := &Loopback{hub: h}
	h.members = append(h.members, m)
	return m
}

func (h *Hub) broadcast(from *Loopback) {
	h.mu.Lock()
	members := make([]*Loopback, len(h.members))
	copy(members, h.members)
	h.mu.Unlock()

	for _, m := range members {
		if m == from {
			continue
		}
		m.deliver()
	}
}

func (h *Hub) leave(m *Loopback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, x := range h.members {
		if x == m {
			h.members = append(h.members[:i], h.members[i+1:]...)
			return
		}
	}
}

type Loopback struct {
	hub *Hub

	mu       sync.Mutex
	handlers []func()
	closed   bool
}

func (l *Loopback) Publish(ctx context.Context) { l.hub.broadcast(l) }

func (l *Loopback) Subscribe(fn func()) {
	l.mu.Lock()
	l.handlers = append(l.handlers, fn)
	l.mu.Unlock()
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.hub.leave(l)
	return nil
}

func (l *Loopback) deliver() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	handlers := make([]func(), len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
