package search

import (
	"twsearch/pkg/ratelimit"
	"twsearch/pkg/storage"
)

// loopState is the pagination state machine: CONTINUE until a page ends
// the run, then DONE.
type loopState int

const (
	stateContinue loopState = iota
	stateDone
)

// StopReason tells why a search run ended
type StopReason int

const (
	// StopCursorExhausted means the last page carried no next_token
	StopCursorExhausted StopReason = iota
	// StopLimitReached means the running total met the configured limit
	StopLimitReached
	// StopCancelled means the context was cancelled between pages
	StopCancelled
	// StopFailed means a fatal error aborted the run
	StopFailed
)

func (r StopReason) String() string {
	switch r {
	case StopCursorExhausted:
		return "cursor_exhausted"
	case StopLimitReached:
		return "limit_reached"
	case StopCancelled:
		return "cancelled"
	case StopFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// runState is the mutable state of one search run
type runState struct {
	interval *ratelimit.Interval
	progress *ratelimit.Throttle
	limit    *int

	cursor   *string
	total    int
	pages    int
	replaced bool
}

// limitReached is true once a non-zero limit is met. A negative limit is
// met by any total, so the run stops after its first page.
func (s *runState) limitReached() bool {
	return s.limit != nil && *s.limit != 0 && s.total >= *s.limit
}

// advance decides the next state after a page was processed
func (s *runState) advance() (loopState, StopReason) {
	if s.cursor == nil {
		return stateDone, StopCursorExhausted
	}
	if s.limitReached() {
		return stateDone, StopLimitReached
	}
	return stateContinue, 0
}

// record folds a page's metadata into the state
func (s *runState) record(resultCount int, next *string) {
	s.pages++
	s.total += resultCount
	s.cursor = next
}

// writeMode returns the mode for the current page and whether to write at
// all. Nothing is written while the total is zero; the first write replaces
// and every later one appends.
func (s *runState) writeMode() (storage.WriteMode, bool) {
	if s.total <= 0 {
		return storage.ModeReplace, false
	}
	if s.replaced {
		return storage.ModeAppend, true
	}
	s.replaced = true
	return storage.ModeReplace, true
}
