// Package search drives the full-archive endpoints to completion.
//
// Search requests pages one after another, following next_token until the
// API stops returning one or the reported total reaches the limit. Each
// page is merged into an Accumulated result (data, errors and every include
// category, concatenated in fetch order) and optionally handed to a
// PageWriter. Between pages the loop sleeps for the configured interval,
// which is also where cancellation is observed.
//
// Counts performs a single request against the counts endpoint.
//
// The running total is taken from meta.result_count, not from the number of
// records received.
package search
