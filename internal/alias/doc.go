// Package alias maps user-facing kind names to canonical catalog names.
//
// The mapping is data, not code: a versioned YAML table validated against
// an embedded CUE schema before use. Lookups normalise input to Unicode
// NFC and trim surrounding space; names are otherwise case-sensitive and
// unknown names pass through unchanged. Mapping is a single step, so a
// table may not chain one alias to another.
package alias
