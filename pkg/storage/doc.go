// Package storage persists search pages to disk.
//
// Every page is split by section into newline-delimited JSON files sharing
// the stem of the output path:
//
//	out/tweets.json         data records
//	out/tweets_users.json   includes.users records
//	out/tweets_media.json   includes.media records
//
// Records are written compacted, one per line, with no envelope. The writer
// does not interpret them.
//
// Replace mode writes through a temporary file in the destination directory
// and renames it into place, so a crash never leaves a half-written file.
// Append mode opens with O_APPEND and creates missing files. The caller
// decides which mode each page uses.
package storage
