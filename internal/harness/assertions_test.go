package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/masa/internal/ir"
)

func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Seq: 1, Op: OpInit, Args: map[string]any{"user": "a", "kind": "euler_1d"}, Outcome: OutcomeOK},
		{Seq: 2, Op: OpInitParams, Outcome: OutcomeOK},
		{Seq: 3, Op: OpEval, Args: map[string]any{"entrypoint": "exact_u_1d", "coords": []any{0.5}}, Outcome: OutcomeOK, Result: "70"},
		{Seq: 4, Op: OpInit, Args: map[string]any{"user": "b", "kind": "bogus"}, Outcome: OutcomeError, Code: "UNKNOWN_KIND"},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Op: OpInit, Args: map[string]any{"user": "a"}}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Op: OpEval, Args: map[string]any{"coords": []any{0.5}}}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Op: OpInit, Outcome: OutcomeError}))

	err := assertTraceContains(trace, Assertion{Op: OpInit, Args: map[string]any{"user": "b"}, Outcome: OutcomeOK})
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Contains(t, err.Error(), "Full trace:")
	assert.Contains(t, err.Error(), "UNKNOWN_KIND")
}

func TestAssertTraceContains_IntegralYAMLNumbers(t *testing.T) {
	trace := []TraceEvent{
		{Seq: 1, Op: OpSetParam, Args: map[string]any{"param": "u_0", "value": 2.0}, Outcome: OutcomeOK},
	}
	assert.NoError(t, assertTraceContains(trace, Assertion{Op: OpSetParam, Args: map[string]any{"value": 2}}))
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Ops: []string{OpInit, OpInitParams, OpEval}}))
	assert.Error(t, assertTraceOrder(trace, Assertion{Ops: []string{OpEval, OpInitParams}}))

	err := assertTraceOrder(trace, Assertion{Ops: []string{OpInit, OpSelect}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing op: select")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Op: OpInit, Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Op: OpInit, Outcome: OutcomeError, Count: 1}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Op: OpSelect, Count: 0}))
	assert.Error(t, assertTraceCount(trace, Assertion{Op: OpEval, Count: 3}))
}

func TestAssertFinalBindingsAndActive(t *testing.T) {
	result := NewResult()
	result.Bindings = []ir.Binding{{User: "a", Kind: "euler_1d"}}
	result.Active = "a"

	assert.NoError(t, assertFinalBindings(result, Assertion{Bindings: []string{"a : euler_1d"}}))
	assert.Error(t, assertFinalBindings(result, Assertion{}))
	assert.NoError(t, assertActive(result, Assertion{User: "a"}))
	assert.Error(t, assertActive(result, Assertion{User: ""}))
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Op: OpInit, Count: 2},
		{Type: AssertTraceContains, Op: OpPolyTest},
		{Type: "bogus"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "trace_contains")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}
