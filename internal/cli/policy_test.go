package cli

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/masa/internal/registry"
)

func TestPanicPolicyParamsUnknownKindJSON(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "params", "heat_9d", "--failure-mode", "panic", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "UNKNOWN_KIND", resp.Error.Code)
}

func TestPanicPolicyEvalFailures(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name     string
		args     []string
		exitCode int
		contains string
	}{
		{"unsupported term", []string{"heat_1d_steady_const", "source_u_1d", "0.5"}, ExitFailure, "UNSUPPORTED_TERM"},
		{"fractional axis", []string{"euler_2d", "grad_u_2d", "0.3", "0.4", "0.9"}, ExitCommandError, "invalid gradient axis"},
		{"arity", []string{"euler_1d", "grad_u_1d", "0.5", "0"}, ExitCommandError, "invalid entry point call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"eval", "--failure-mode", "panic"}, tt.args...)
			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestPanicPolicySetSuppliesMissingDefault(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "params", "masa_uninit", "--failure-mode", "panic", "--set", "dummy=2")
	require.NoError(t, err)
	assert.Contains(t, out, "dummy = 2")

	_, _, err = execute(t, "params", "masa_uninit", "--failure-mode", "panic")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "CATALOG_INTEGRITY")
}

func TestExecuteRecoversRegistryPanic(t *testing.T) {
	cmd := &cobra.Command{
		Use:           "boom",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			panic(registry.NewNoActive())
		},
	}
	cmd.SetArgs(nil)

	err := Execute(cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, registry.IsNoActive(err))
}

func TestExecuteRethrowsOtherPanics(t *testing.T) {
	cmd := &cobra.Command{
		Use: "boom",
		RunE: func(*cobra.Command, []string) error {
			panic(errors.New("not a registry failure"))
		},
	}
	cmd.SetArgs(nil)

	assert.Panics(t, func() { _ = Execute(cmd) })
}
