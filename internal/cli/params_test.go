package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/masa/internal/ir"
)

func TestParamsDefaults(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "params", "heateq_1d_steady_const")
	require.NoError(t, err)
	assert.Contains(t, out, "heat_1d_steady_const (double)\n")
	assert.Contains(t, out, "k_0 = ")
	assert.NotContains(t, out, "<unset>")
}

func TestParamsSkipDefaults(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "params", "masa_test_function", "--skip-defaults", "--set", "demo_var_2=4")
	require.NoError(t, err)
	assert.Contains(t, out, "demo_var_1 = <unset>")
	assert.Contains(t, out, "demo_var_2 = 4")
}

func TestParamsJSON(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "params", "test_function", "--set", "demo_var_1=0.5", "--set", "extra=7", "--format", "json")
	require.NoError(t, err)

	var view struct {
		Kind      ir.KindName `json:"kind"`
		Precision string      `json:"precision"`
		Params    []struct {
			Name     string  `json:"name"`
			Value    float64 `json:"value"`
			IsSet    bool    `json:"set"`
			Declared bool    `json:"declared"`
		} `json:"params"`
	}
	decodeResponse(t, out, &view)
	assert.Equal(t, ir.KindName("masa_test_function"), view.Kind)
	assert.Equal(t, "double", view.Precision)
	require.Len(t, view.Params, 4)
	assert.Equal(t, "demo_var_1", view.Params[0].Name)
	assert.Equal(t, 0.5, view.Params[0].Value)
	assert.Equal(t, "extra", view.Params[3].Name)
	assert.False(t, view.Params[3].Declared)
}

func TestParamsUnknownKind(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "params", "heat_9d", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "UNKNOWN_KIND", resp.Error.Code)
}

func TestParamsRequiredWithoutDefault(t *testing.T) {
	isolateConfig(t)

	_, _, err := execute(t, "params", "masa_uninit")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "CATALOG_INTEGRITY")

	out, _, err := execute(t, "params", "masa_uninit", "--set", "dummy=1")
	require.NoError(t, err)
	assert.Contains(t, out, "dummy = 1")
}

func TestParamsInvalidSet(t *testing.T) {
	isolateConfig(t)

	for _, set := range []string{"novalue", "=1", "k_0=abc"} {
		t.Run(set, func(t *testing.T) {
			_, _, err := execute(t, "params", "heat_1d_steady_const", "--set", set)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestParseSets(t *testing.T) {
	sets, err := parseSets([]string{"a=1", " b = 2.5 "}, 64)
	require.NoError(t, err)
	assert.Equal(t, []paramSet{{"a", 1}, {"b", 2.5}}, sets)

	_, err = parseSets([]string{"a=1e39"}, 32)
	require.Error(t, err, "out of range for single precision")
}
