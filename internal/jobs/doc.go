// Package jobs holds the in-memory registry of transcription jobs.
//
// The Registry is the only shared mutable state in the daemon. One mutex
// guards the whole collection, every read hands out copies, and a job that
// reached a terminal status (completed or failed) ignores further updates.
// Jobs live for the lifetime of the process; nothing is persisted.
package jobs
