// Package main hosts the reelscribe CLI entrypoint and command graph.
//
// `reelscribe serve` wires configuration, logging, the tool clients, the
// inference worker, and the daemon into one process. The remaining commands
// talk to a running daemon over its HTTP API (submit, jobs, health) or work
// on local state (deps, config).
package main
