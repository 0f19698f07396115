// Package logger provides the structured logging interface used across twsearch.
//
// It wraps zerolog. Output goes to stderr, pretty-printed when stderr is a
// terminal and as JSON lines otherwise, so stdout stays free for results.
// When a log file is configured, JSON lines are also written there through
// lumberjack, which rotates the file by size and age.
//
// Basic Usage:
//
//	log, err := logger.New(&cfg.Logging)
//	log.WithField("run_id", runID).Info("Search started")
//	log.WithError(err).Error("Write failed")
//
// Tests use NewNopLogger, or NewTestLogger to assert on captured messages.
package logger
