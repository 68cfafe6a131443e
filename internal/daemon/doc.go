// Package daemon coordinates the long-running reelscribe process.
//
// It wires configuration, the job registry, the workflow manager, and the
// HTTP API into a single lifecycle with flock-based locking to prevent
// multiple instances. The API server exposes health, submission, and job
// listing routes; job execution itself lives in the workflow and pipeline
// packages.
package daemon
