// Package store is the SQLite verification journal written by
// `masa verify --db`. Registries never touch it.
//
// The journal is append-only:
//   - runs: one row per verify invocation, identified by a UUIDv7
//   - checks: one row per consistency check of one instance in a run
//
// All ordering uses the seq columns (a logical clock), never timestamps,
// and every read orders by seq ASC, id ASC COLLATE BINARY so output is
// identical across machines.
//
// Check IDs and parameter snapshot hashes are computed in internal/ir
// from canonical JSON and SHA-256 with domain separation.
package store
