package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGolden    = "../harness/testdata/golden"
)

const failingScenario = `name: failing
description: "Expects the wrong value"
steps:
  - op: init
    user: tf
    kind: masa_test_function
  - op: init_params
  - op: eval
    entrypoint: exact_t_1d
    args: [2]
    expect: { value: 12 }
`

func TestTestCommandMissingArgs(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestTestCommandNonExistentPath(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenario path not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	dir := isolateConfig(t)

	out, _, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")

	out, _, err = execute(t, "test", dir, "--format", "json")
	require.NoError(t, err)
	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, result.Total)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	scenarios := absPath(t, harnessScenarios)
	golden := absPath(t, harnessGolden)
	isolateConfig(t)

	out, _, err := execute(t, "test", scenarios, "--golden", golden)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ init_and_list")
	assert.Contains(t, out, "✓ custom_alias_table")
	assert.Contains(t, out, "Test Summary: 10 passed, 0 failed, 10 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	scenarios := absPath(t, harnessScenarios)
	isolateConfig(t)

	out, _, err := execute(t, "test", scenarios, "--filter", "0[12]_*", "--format", "json")
	require.NoError(t, err)

	var result TestResult
	decodeResponse(t, out, &result)
	require.Equal(t, 2, result.Total)
	assert.Equal(t, "init_and_list", result.Scenarios[0].Name)
	assert.Equal(t, "select_unknown_lists_names", result.Scenarios[1].Name)
}

func TestTestCommandUpdateGolden(t *testing.T) {
	scenarios := absPath(t, harnessScenarios)
	golden := absPath(t, harnessGolden)
	dir := isolateConfig(t)
	out := filepath.Join(dir, "golden")

	_, _, err := execute(t, "test", filepath.Join(scenarios, "06_single_precision.yaml"), "--golden", out, "--update")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(out, "single_precision_test_function.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(golden, "single_precision_test_function.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestTestCommandUpdateRequiresGolden(t *testing.T) {
	dir := isolateConfig(t)

	_, _, err := execute(t, "test", dir, "--update")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	scenarios := absPath(t, harnessScenarios)
	dir := isolateConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init_and_list.golden"), []byte("{}"), 0o644))

	out, _, err := execute(t, "test", filepath.Join(scenarios, "01_init_and_list.yaml"), "--golden", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "failing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(failingScenario), 0o644))

	out, _, err := execute(t, "test", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "expected 12")

	out, _, err = execute(t, "test", path, "--format", "json")
	require.Error(t, err)
	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, result.Failed)
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: broken\nbogus: 1\n"), 0o644))

	out, _, err := execute(t, "test", path)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestFilterScenarios(t *testing.T) {
	files := []string{"a/cart-add.yaml", "a/cart-test.yml", "a/inventory.yaml"}

	got, err := filterScenarios(files, "cart-*")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/cart-add.yaml", "a/cart-test.yml"}, got)

	got, err = filterScenarios(files, "")
	require.NoError(t, err)
	assert.Equal(t, files, got)

	_, err = filterScenarios(files, "[")
	require.Error(t, err)
}
