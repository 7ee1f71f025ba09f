package coalesce

import (
	"context"
	"log/slog"
	"time"
)

// Defaults for the refresh loop. The fallback interval matches the original
// polling cadence that covers missed realtime signals.
const (
	DefaultRefreshWindow   = 50 * time.Millisecond
	DefaultRefreshInterval = 4 * time.Second
)

// RefreshFunc re-derives state from the store. It must be idempotent and
// side-effect free beyond replacing derived state.
type RefreshFunc func(ctx context.Context) error

// Refresher funnels change signals into refresh calls. Bursts of Poke calls
// within the quiescence window collapse into a single refresh, and a periodic
// fallback refresh covers missed signals. Refresh failures are logged and the
// previous derived state stays in place.
type Refresher struct {
	refresh  RefreshFunc
	window   time.Duration
	interval time.Duration
	signal   chan struct{}
	logger   *slog.Logger
}

// NewRefresher returns a Refresher calling fn. Non-positive window or interval
// use the package defaults.
func NewRefresher(fn RefreshFunc, window, interval time.Duration, logger *slog.Logger) *Refresher {
	if window <= 0 {
		window = DefaultRefreshWindow
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		refresh:  fn,
		window:   window,
		interval: interval,
		signal:   make(chan struct{}, 1),
		logger:   logger,
	}
}

// Poke requests a refresh. Never blocks; signals arriving while one is already
// queued coalesce into it.
func (r *Refresher) Poke() {
	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// Run processes signals until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.signal:
			if !r.absorb(ctx) {
				return
			}
			r.do(ctx)
		case <-ticker.C:
			r.do(ctx)
		}
	}
}

// absorb swallows further signals for one quiescence window. Returns false
// when ctx ended.
func (r *Refresher) absorb(ctx context.Context) bool {
	timer := time.NewTimer(r.window)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-r.signal:
		case <-timer.C:
			return true
		}
	}
}

func (r *Refresher) do(ctx context.Context) {
	if err := r.refresh(ctx); err != nil {
		r.logger.Warn("refresh failed, keeping previous state", "err", err)
	}
}
