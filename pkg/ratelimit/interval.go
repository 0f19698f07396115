package ratelimit

import (
	"context"
	"time"
)

// SleepFunc suspends the caller for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Interval is a fixed pause between pages. The pause is whole seconds:
// fractional parts are truncated and anything below one second disables it.
type Interval struct {
	delay time.Duration
	sleep SleepFunc
}

// NewInterval creates a pacer sleeping int(seconds) seconds per Wait
func NewInterval(seconds float64) *Interval {
	return &Interval{
		delay: WholeSeconds(seconds),
		sleep: Sleep,
	}
}

// WithSleep replaces the sleep function, mainly for tests
func (i *Interval) WithSleep(fn SleepFunc) *Interval {
	i.sleep = fn
	return i
}

// Delay returns the effective pause
func (i *Interval) Delay() time.Duration {
	return i.delay
}

// Wait sleeps for the configured delay. A zero delay returns at once,
// without consulting ctx.
func (i *Interval) Wait(ctx context.Context) error {
	if i.delay <= 0 {
		return nil
	}
	return i.sleep(ctx, i.delay)
}

// WholeSeconds truncates seconds toward zero; non-positive results become 0.
func WholeSeconds(seconds float64) time.Duration {
	whole := int(seconds)
	if whole <= 0 {
		return 0
	}
	return time.Duration(whole) * time.Second
}

// Sleep is a context-aware time.Sleep
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
