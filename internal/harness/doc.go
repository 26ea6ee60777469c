// Package harness runs scripted registry scenarios and compares their
// traces against golden files.
//
// # Scenario Format
//
//	name: select_unknown_lists_names
//	description: "Select of an unknown name reports the current listing"
//	precision: double
//	steps:
//	  - op: init
//	    user: run-a
//	    kind: heat_1d_steady_const
//	  - op: select
//	    user: missing
//	    expect:
//	      error: UNKNOWN_INSTANCE
//	      diagnostic: "run-a : heat_1d_steady_const"
//	  - op: eval
//	    entrypoint: exact_t_1d
//	    args: [0.5]
//	    expect: { value: 0.362357754, tol: 1e-9 }
//	assertions:
//	  - type: final_bindings
//	    bindings: ["run-a : heat_1d_steady_const"]
//
// Steps are init, select, list, set_param, get_param, init_params,
// purge_params, eval, sanity_check, poly_test, name and dimension. A step
// without expect must succeed; a failing step never stops the scenario.
//
// # Assertion Types
//
//   - trace_contains: some step with the op (and subset of args) ran
//   - trace_order: the first occurrences of ops appear in order
//   - trace_count: an op ran exactly N times
//   - final_bindings: the registry listing after the last step
//   - active: the active user name after the last step
//
// # Deterministic Testing
//
// Every scenario runs against a fresh registry with the return failure
// policy, a discarded log and a logical sequence clock, so traces are
// identical across runs. Scalars are rendered in the shortest form that
// round-trips at the scenario's precision.
package harness
