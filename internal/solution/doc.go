// Package solution defines the capability set every manufactured-solution
// kind implements and provides the built-in kinds.
//
// A kind is a formula family with a canonical name and a spatial
// dimensionality. Each constructed value is an independent instance with
// its own parameter store. Evaluations take an ir.Point whose
// dimensionality and time flag select the entry point; a kind answers only
// the combinations it supports and returns *UnsupportedError for the rest.
//
// Formula bodies compute in float64 and round the result to the scalar
// type of the instance.
package solution
