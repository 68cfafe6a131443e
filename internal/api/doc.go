// Package api defines the HTTP wire format shared by the daemon and the CLI.
//
// Job mirrors jobs.Job with snake_case JSON keys (id, url, status,
// result_path, ...) and RFC3339 timestamps. FromJob and FromJobs convert
// registry snapshots; Client is the small HTTP client the CLI uses to submit
// URLs and poll job state from a running daemon.
package api
