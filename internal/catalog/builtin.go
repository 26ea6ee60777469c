package catalog

import (
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/solution"
)

// Builtins returns the built-in kinds in declaration order.
func Builtins[S ir.Scalar]() []Entry[S] {
	heat := func(dim int, unsteady bool) Factory[S] {
		return func() solution.Solution[S] { return solution.NewHeat[S](dim, unsteady) }
	}
	euler := func(dim int) Factory[S] {
		return func() solution.Solution[S] { return solution.NewEuler[S](dim) }
	}
	return []Entry[S]{
		{Factory: solution.NewTestFunction[S], Doc: "quadratic test function"},
		{Factory: solution.NewUninit[S], Doc: "kind with a parameter that has no default"},

		{Factory: heat(1, false), Doc: "steady heat equation, constant coefficients"},
		{Factory: heat(2, false), Doc: "steady heat equation, constant coefficients"},
		{Factory: heat(3, false), Doc: "steady heat equation, constant coefficients"},

		{Factory: heat(1, true), Doc: "unsteady heat equation, constant coefficients"},
		{Factory: heat(2, true), Doc: "unsteady heat equation, constant coefficients"},
		{Factory: heat(3, true), Doc: "unsteady heat equation, constant coefficients"},

		{Factory: euler(1), Doc: "inviscid compressible flow"},
		{Factory: euler(2), Doc: "inviscid compressible flow"},
	}
}

// Default returns the catalog of built-in kinds.
func Default[S ir.Scalar]() *Catalog[S] {
	return MustNew(Builtins[S]()...)
}
