// Package services defines shared utilities consumed by the pipeline stages
// and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures keep their
//     category (launch, exit, network, filesystem, inference) through any
//     amount of wrapping.
//   - The Executor abstraction that runs an external binary and streams its
//     output line by line, so tool wrappers stay testable.
package services
