// Package param holds the named scalar parameters owned by one solution
// instance.
//
// A kind declares its parameters once, in order, each with a documented
// default (or none, for parameters the caller must supply). Reading a
// parameter that was never set is an error; there is no implicit zero.
//
// Stores are not safe for concurrent use. Every store belongs to exactly
// one instance and is never shared across precision domains.
package param
