package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/masa/internal/catalog"
	"github.com/roach88/masa/internal/ir"
)

func TestKindsText(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "kinds")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "MASA :: Available Solutions:", lines[0])
	assert.Equal(t, "masa_test_function", lines[2])
	assert.Contains(t, out, "heat_3d_unsteady_const")
	assert.Contains(t, out, "euler_2d")
}

func TestKindsJSON(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "kinds", "--format", "json", "--precision", "single")
	require.NoError(t, err)

	var kinds []catalog.Kind
	resp := decodeResponse(t, out, &kinds)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, kinds, catalog.Default[float32]().Len())
	assert.Equal(t, ir.KindName("masa_test_function"), kinds[0].Name)
	assert.Equal(t, 1, kinds[0].Dimension)
}

func TestEntrypointsText(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "entrypoints")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(ir.Entrypoints()))
	assert.Contains(t, out, "grad_t_1d")
	assert.Contains(t, out, "x axis")
	assert.Contains(t, out, "exact_t_3d_t")
	assert.Contains(t, out, "x y z t")
}

func TestEntrypointsJSON(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "entrypoints", "--format", "json")
	require.NoError(t, err)

	var eps []ir.Entrypoint
	decodeResponse(t, out, &eps)
	assert.Equal(t, ir.Entrypoints(), eps)
}

func TestEntrypointUsage(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"source_t_1d", "x"},
		{"source_t_2d_t", "x y t"},
		{"grad_rho_2d", "x y axis"},
		{"grad_rho_1d", "x"},
		{"exact_t_3d", "x y z"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ep, ok := ir.LookupEntrypoint(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, entrypointUsage(ep))
		})
	}
}
