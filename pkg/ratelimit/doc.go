// Package ratelimit paces the search loop.
//
// Interval implements the fixed inter-page pause. It is the only place the
// pagination loop suspends, and it returns early with ctx.Err() when the
// run is cancelled.
//
// Throttle limits how often progress is reported:
//
//	progress := ratelimit.NewThrottleWithClock(10*time.Second, time.Now)
//	if progress.Ready() {
//	    log.Info("still running")
//	}
package ratelimit
