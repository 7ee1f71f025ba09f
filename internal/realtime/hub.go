// Package realtime provides the in-process change notifier. It fans session
// change signals out to subscribers; slow subscribers get signals coalesced
// rather than queued.
package realtime

import (
	"sync"

	"moija/internal/domain"
)

type subscriber struct {
	ch chan struct{}
}

// Hub is an in-memory domain.ChangeNotifier.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

var _ domain.ChangeNotifier = (*Hub)(nil)

// Publish signals every subscriber of the session. Never blocks: a subscriber
// that has not drained its previous signal keeps exactly one queued.
func (h *Hub) Publish(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[sessionID] {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers for the session's change signals. The cancel function
// releases the subscription and closes the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan struct{}, func()) {
	sub := &subscriber{ch: make(chan struct{}, 1)}

	h.mu.Lock()
	set := h.subs[sessionID]
	if set == nil {
		set = make(map[*subscriber]struct{})
		h.subs[sessionID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[sessionID], sub)
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}
