// Package twitter is the transport for the v2 full-archive endpoints.
//
// A Client performs one authenticated GET per Fetch call against either
// the search or the counts operation. It has no notion of pages: callers
// drive pagination through the next_token parameter.
//
// Failures come in two kinds. A returned error means nothing usable came
// back (network failure, unbuildable request) and the run should stop. A
// non-2xx status is a soft failure: Fetch still returns a Result whose Page
// holds the decoded body and whose Err describes the status.
package twitter
