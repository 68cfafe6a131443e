// Package workflow turns submissions into running pipeline jobs.
//
// The Manager registers each submitted URL in the job registry and starts one
// goroutine that owns the job end to end. The pipeline publishes progress on
// a channel; a consumer goroutine per job writes each event into the registry
// as a status string, and the terminal status (completed or failed) is written
// only after that channel is drained, so a late progress event can never
// overwrite it.
//
// Jobs run under the manager's context. Stop cancels it, which kills running
// tools and fails in-flight jobs, then waits for every job goroutine.
package workflow
