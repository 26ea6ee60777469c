// Package ir provides the shared vocabulary for the manufactured-solution
// registry.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// vocabulary the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - UserName and KindName are distinct string types and never convert
//     implicitly in a public signature
//   - Every scalar type is partitioned by Precision; nothing crosses domains
//   - The entry point table is fixed at compile time and ordered
//   - Canonical JSON is the only serialization used for hashing
package ir
