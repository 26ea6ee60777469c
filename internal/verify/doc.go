// Package verify checks the internal consistency of manufactured
// solutions: analytic gradients against finite differences of the exact
// field, and analytic source terms against the PDE residual of the exact
// field.
//
// All derivatives are taken with gonum's diff/fd in float64. For the
// single precision domain the step and tolerances are widened so that
// float32 round-off in the exact field does not dominate.
package verify
