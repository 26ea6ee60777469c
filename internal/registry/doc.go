// Package registry owns the named solution instances of one precision
// domain and tracks which single instance is active.
//
// A Registry is an explicitly constructed value; there is no process-wide
// singleton. Callers needing both precisions build two registries.
//
// INVARIANTS:
//   - User names are unique; re-initializing a name replaces and releases
//     the previous instance under that name.
//   - The active reference, when set, always names an instance present in
//     the mapping.
//   - Exactly zero or one instance is active.
//   - Instances are removed only by Close (registry-wide teardown).
//
// Every failure is a *Error carrying a Code. How a failure surfaces is a
// Policy choice: returned (default), raised as a panic carrying the *Error,
// or reported and followed by process exit.
//
// Registries are not safe for concurrent use; callers serialize access.
package registry
