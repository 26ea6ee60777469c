package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntrypointID(t *testing.T) {
	assert.Equal(t, "source_u_2d", Entrypoint{Term: TermSource, Field: FieldU, Dim: 2}.ID())
	assert.Equal(t, "exact_t_3d_t", Entrypoint{Term: TermExact, Field: FieldT, Dim: 3, Timed: true}.ID())
	assert.Equal(t, "grad_rho_1d", Entrypoint{Term: TermGradient, Field: FieldRho, Dim: 1}.ID())
}

func TestEntrypointArity(t *testing.T) {
	assert.Equal(t, 2, Entrypoint{Term: TermSource, Field: FieldU, Dim: 2}.Arity())
	assert.Equal(t, 4, Entrypoint{Term: TermExact, Field: FieldT, Dim: 3, Timed: true}.Arity())
	assert.Equal(t, 1, Entrypoint{Term: TermGradient, Field: FieldU, Dim: 1}.Arity())
	assert.Equal(t, 3, Entrypoint{Term: TermGradient, Field: FieldU, Dim: 2}.Arity())
	assert.Equal(t, 4, Entrypoint{Term: TermGradient, Field: FieldT, Dim: 3}.Arity())
}

func TestEntrypointTakesAxis(t *testing.T) {
	assert.False(t, Entrypoint{Term: TermGradient, Field: FieldU, Dim: 1}.TakesAxis())
	assert.True(t, Entrypoint{Term: TermGradient, Field: FieldU, Dim: 2}.TakesAxis())
	assert.False(t, Entrypoint{Term: TermSource, Field: FieldU, Dim: 3}.TakesAxis())
}

func TestEntrypointsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range Entrypoints() {
		assert.False(t, seen[e.ID()], "duplicate entry point %s", e.ID())
		seen[e.ID()] = true
		assert.GreaterOrEqual(t, e.Dim, 1)
		assert.LessOrEqual(t, e.Dim, MaxDim)
	}
}

func TestEntrypointsIncludeKnownIDs(t *testing.T) {
	for _, id := range []string{
		"source_t_1d", "source_t_1d_t", "source_rho_N2_1d", "exact_rho_N_1d",
		"grad_p_1d", "source_t_2d_t", "source_rho_v_2d", "grad_w_2d",
		"source_t_3d_t", "exact_t_3d", "exact_t_3d_t", "grad_rho_3d",
	} {
		_, ok := LookupEntrypoint(id)
		assert.True(t, ok, "missing entry point %s", id)
	}
}

func TestLookupEntrypoint(t *testing.T) {
	e, ok := LookupEntrypoint(" source_e_1d ")
	require.True(t, ok)
	assert.Equal(t, TermSource, e.Term)
	assert.Equal(t, FieldE, e.Field)
	assert.Equal(t, 1, e.Dim)

	_, ok = LookupEntrypoint("source_e_4d")
	assert.False(t, ok)
}

func TestEntrypointsReturnsCopy(t *testing.T) {
	eps := Entrypoints()
	eps[0].Dim = 99
	assert.Equal(t, 1, Entrypoints()[0].Dim)
}
