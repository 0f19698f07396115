// Package checkpoint persists the cursor of a running search so an
// interrupted run can be resumed.
//
// A checkpoint is keyed by Fingerprint, a hash of the request parameters
// and the output file, and holds the last next_token together with the
// running total and page count. It is rewritten atomically after every
// page and removed once the run finishes.
//
// Files live under $XDG_DATA_HOME/twsearch/checkpoints on Linux,
// ~/Library/Application Support/twsearch/checkpoints on macOS and
// %APPDATA%\twsearch\checkpoints on Windows, unless a directory is
// configured explicitly.
package checkpoint
