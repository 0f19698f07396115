package ratelimit

import (
	"sync"
	"time"
)

// Throttle lets an action through at most once per period. The first
// window starts at construction, not at the first call.
type Throttle struct {
	period time.Duration
	now    func() time.Time
	last   time.Time
	mu     sync.Mutex
}

// NewThrottleWithClock creates a throttle reading time from now
func NewThrottleWithClock(period time.Duration, now func() time.Time) *Throttle {
	return &Throttle{
		period: period,
		now:    now,
		last:   now(),
	}
}

// Ready reports whether a full period elapsed since the last time it
// returned true, and starts a new period if so.
func (t *Throttle) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.now()
	if current.Sub(t.last) < t.period {
		return false
	}
	t.last = current
	return true
}

// Reset restarts the current period
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = t.now()
}
