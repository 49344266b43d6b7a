// Package memory provides an in-memory Transport and PermissionGate.
//
// The transport records every line written to each peer, which makes it the backing
// adapter for tests, for the CLI dry-run mode and for demos without serial hardware.
// Failures (enumeration, dial, write) and latency can be injected.
package memory
