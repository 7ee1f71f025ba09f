// Package coalesce contains the write and read coalescing primitives: a
// single-slot debounced saver for rapid edit streams and a burst-absorbing
// refresher for change notifications.
package coalesce

import (
	"context"
	"sync"
	"time"

	"moija/internal/domain"
)

// DefaultSaveWindow is the quiescence window before a staged snapshot is
// flushed.
const DefaultSaveWindow = 300 * time.Millisecond

// FlushFunc persists one full snapshot of a participant's unavailability.
type FlushFunc func(ctx context.Context, slots []domain.Slot) error

// Saver coalesces a rapid stream of snapshot updates (a drag across many
// cells) into store writes. It is a single-slot mailbox: each Offer replaces
// the pending snapshot wholesale, a quiescence timer flushes it, and Flush
// forces an immediate write when the edit gesture ends. At most one flush runs
// at a time; a snapshot arriving mid-flight is flushed right after the
// in-flight one completes, so no edit is ever dropped. A failed flush re-queues
// its snapshot unless a newer one superseded it.
type Saver struct {
	mu         sync.Mutex
	flush      FlushFunc
	window     time.Duration
	pending    []domain.Slot
	hasPending bool
	inflight   bool
	timer      *time.Timer
}

// NewSaver returns a Saver flushing through fn after window of quiescence.
// A non-positive window uses DefaultSaveWindow.
func NewSaver(fn FlushFunc, window time.Duration) *Saver {
	if window <= 0 {
		window = DefaultSaveWindow
	}
	return &Saver{flush: fn, window: window}
}

// Offer stages a full snapshot, replacing any pending one, and re-arms the
// quiescence timer.
func (s *Saver) Offer(slots []domain.Slot) {
	s.mu.Lock()
	s.pending = slots
	s.hasPending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.kick)
	s.mu.Unlock()
}

// Flush writes the pending snapshot immediately, bypassing the quiescence
// window. No-op when nothing is pending.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	s.kick()
}

func (s *Saver) kick() {
	s.mu.Lock()
	if s.inflight || !s.hasPending {
		s.mu.Unlock()
		return
	}
	snapshot := s.pending
	s.pending = nil
	s.hasPending = false
	s.inflight = true
	s.mu.Unlock()

	go func() {
		err := s.flush(context.Background(), snapshot)

		s.mu.Lock()
		s.inflight = false
		if err != nil && !s.hasPending {
			// Retry the failed snapshot unless a newer one arrived meanwhile.
			s.pending = snapshot
			s.hasPending = true
			s.timer = time.AfterFunc(s.window, s.kick)
			s.mu.Unlock()
			return
		}
		again := s.hasPending
		s.mu.Unlock()
		if again {
			s.kick()
		}
	}()
}
