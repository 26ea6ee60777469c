package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	paths, err := Discover("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors:\n%s", strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/05_param_defaults.yaml")
	require.NoError(t, err)

	r1, err := Run(scenario)
	require.NoError(t, err)
	r2, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, r1.Trace, r2.Trace)
	for i, ev := range r1.Trace {
		assert.Equal(t, int64(i+1), ev.Seq)
	}
}

func TestRun_FreshRegistryPerScenario(t *testing.T) {
	first := mustParse(t, `
name: first
description: d
steps:
  - op: init
    user: a
    kind: euler_1d
`)
	second := mustParse(t, `
name: second
description: d
steps:
  - op: list
    expect: { list: [] }
  - op: name
    expect: { error: NO_ACTIVE_INSTANCE }
`)

	_, err := Run(first)
	require.NoError(t, err)
	result, err := Run(second)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Bindings)
	assert.Empty(t, result.Active)
}

func TestRun_FailedExpectationsAreReported(t *testing.T) {
	scenario := mustParse(t, `
name: failing
description: d
steps:
  - op: init
    user: a
    kind: no_such_kind
  - op: init
    user: a
    kind: euler_1d
    expect: { error: UNKNOWN_KIND }
  - op: init_params
  - op: get_param
    param: u_0
    expect: { value: 71 }
  - op: name
    expect: { name: heat_1d_steady_const }
  - op: dimension
    expect: { int: 2 }
  - op: sanity_check
    expect: { bool: false }
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], "unexpected error")
	assert.Contains(t, result.Errors[1], "expected error UNKNOWN_KIND, got success")
	assert.Contains(t, result.Errors[2], "expected 71")
	assert.Contains(t, result.Errors[3], `expected name "heat_1d_steady_const"`)
	assert.Contains(t, result.Errors[4], "expected 2, got 1")
	assert.Contains(t, result.Errors[5], "expected false, got true")
}

func TestRun_WrongErrorCode(t *testing.T) {
	scenario := mustParse(t, `
name: wrong_code
description: d
steps:
  - op: name
    expect: { error: UNKNOWN_KIND }
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "got NO_ACTIVE_INSTANCE")
}

func TestRun_DiagnosticMismatch(t *testing.T) {
	scenario := mustParse(t, `
name: diag
description: d
steps:
  - op: select
    user: nobody
    expect:
      error: UNKNOWN_INSTANCE
      diagnostic: "someone else"
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "UNKNOWN_INSTANCE", result.Trace[0].Code)
	assert.Contains(t, result.Trace[0].Diagnostic, `"nobody"`)
	assert.Contains(t, result.Trace[0].Diagnostic, "Number of initialized solutions: 0")
}

func TestRun_AssertionFailuresAreReported(t *testing.T) {
	scenario := mustParse(t, `
name: assertion_failure
description: d
steps:
  - op: init
    user: a
    kind: euler_1d
assertions:
  - type: active
    user: b
  - type: final_bindings
    bindings: []
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 2)
}

func TestRun_MissingAliasTable(t *testing.T) {
	scenario := mustParse(t, `
name: missing_aliases
description: d
aliases: testdata/does-not-exist.yaml
steps:
  - op: list
`)

	_, err := Run(scenario)
	assert.Error(t, err)
}

func TestRun_ScalarsRenderedAtPrecision(t *testing.T) {
	steps := `
description: d
steps:
  - op: init
    user: h
    kind: heat_1d_steady_const
  - op: init_params
  - op: get_param
    param: A_x
`
	double := mustParse(t, "name: d\nprecision: double\n"+steps)
	single := mustParse(t, "name: s\nprecision: single\n"+steps)

	rd, err := Run(double)
	require.NoError(t, err)
	rs, err := Run(single)
	require.NoError(t, err)

	assert.Equal(t, "2.4", rd.Trace[2].Result)
	assert.Equal(t, "2.4", rs.Trace[2].Result)
}

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}
