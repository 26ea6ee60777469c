package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasesBuiltIn(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "aliases")
	require.NoError(t, err)
	assert.Contains(t, out, "aliases.yaml (version 1)")
	assert.Contains(t, out, "  euler1d -> euler_1d")
	assert.Contains(t, out, "  test_function -> masa_test_function")
}

func TestAliasesJSON(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "aliases", "--format", "json")
	require.NoError(t, err)

	var report AliasReport
	decodeResponse(t, out, &report)
	assert.Equal(t, "1", report.Version)
	assert.NotEmpty(t, report.Aliases)
	assert.Empty(t, report.Problems)
}

func TestAliasesConfiguredFile(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "short.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\naliases:\n  h1: heat_1d_steady_const\n"), 0o644))

	out, _, err := execute(t, "aliases", "--aliases", path)
	require.NoError(t, err)
	assert.Contains(t, out, "  h1 -> heat_1d_steady_const")
	assert.NotContains(t, out, "euler1d")

	// The configured table also drives initialization.
	out, _, err = execute(t, "eval", "h1", "exact_t_1d", "0", "--aliases", path)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestAliasesUnknownTarget(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\naliases:\n  h9: heat_9d\n"), 0o644))

	out, _, err := execute(t, "aliases", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E_ALIAS_INVALID]")
	assert.Contains(t, out, "aliases.h9")
}

func TestAliasesSchemaViolation(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"2\"\naliases:\n  h1: Heat\n"), 0o644))

	out, _, err := execute(t, "aliases", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeAliasInvalid, resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestAliasesMissingFile(t *testing.T) {
	dir := isolateConfig(t)

	_, _, err := execute(t, "aliases", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
