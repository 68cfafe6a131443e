// Package assets keeps the inference model in the local cache.
//
// Resolver.EnsurePresent is idempotent: a cached model is returned without
// touching the network, and a missing one is streamed into place through a
// ".part" file that is renamed only after the transfer completes. Concurrent
// first-time downloads of the same model collapse into one, both within the
// process (single-flight) and across processes (file lock).
package assets
