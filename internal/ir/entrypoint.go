package ir

import (
	"fmt"
	"strings"
)

// Entrypoint identifies one evaluation call of the dispatch surface: a term
// family, a field, a spatial dimensionality and whether time is an argument.
// Gradient entry points above 1D additionally take a component axis as
// their last argument.
type Entrypoint struct {
	Term  Term  `json:"term"`
	Field Field `json:"field"`
	Dim   int   `json:"dim"`
	Timed bool  `json:"timed"`
}

// ID returns the stable identifier, e.g. "source_u_2d" or "exact_t_3d_t".
func (e Entrypoint) ID() string {
	id := fmt.Sprintf("%s_%s_%dd", e.Term, e.Field, e.Dim)
	if e.Timed {
		id += "_t"
	}
	return id
}

// TakesAxis reports whether the entry point takes a trailing component
// axis. A 1D gradient has only one component.
func (e Entrypoint) TakesAxis() bool {
	return e.Term == TermGradient && e.Dim > 1
}

// Arity returns the number of scalar arguments the entry point takes:
// coordinates, then time, then axis.
func (e Entrypoint) Arity() int {
	n := e.Dim
	if e.Timed {
		n++
	}
	if e.TakesAxis() {
		n++
	}
	return n
}

// String implements fmt.Stringer.
func (e Entrypoint) String() string { return e.ID() }

// entrypoints is the fixed dispatch surface in declaration order:
// 1D, then 2D, then 3D; within a dimension source, exact, gradient.
var entrypoints = buildEntrypoints()

func buildEntrypoints() []Entrypoint {
	var eps []Entrypoint
	add := func(term Term, dim int, timed bool, fields ...Field) {
		for _, f := range fields {
			eps = append(eps, Entrypoint{Term: term, Field: f, Dim: dim, Timed: timed})
		}
	}

	// 1D
	add(TermSource, 1, false, FieldT)
	add(TermSource, 1, true, FieldT)
	add(TermSource, 1, false, FieldU, FieldV, FieldW, FieldRho, FieldRhoU, FieldRhoE, FieldRhoN, FieldRhoN2, FieldE)
	add(TermExact, 1, true, FieldT)
	add(TermExact, 1, false, FieldT, FieldU, FieldV, FieldW, FieldP, FieldRho, FieldRhoN, FieldRhoN2)
	add(TermGradient, 1, false, FieldT, FieldU, FieldV, FieldW, FieldP, FieldRho)

	// 2D
	add(TermSource, 2, false, FieldT)
	add(TermSource, 2, true, FieldT)
	add(TermSource, 2, false, FieldU, FieldV, FieldW, FieldRho, FieldE, FieldRhoU, FieldRhoV, FieldRhoW, FieldRhoE)
	add(TermExact, 2, true, FieldT)
	add(TermExact, 2, false, FieldT, FieldU, FieldV, FieldW, FieldP, FieldRho)
	add(TermGradient, 2, false, FieldT, FieldU, FieldV, FieldW, FieldP, FieldRho)

	// 3D
	add(TermSource, 3, false, FieldT)
	add(TermSource, 3, true, FieldT)
	add(TermSource, 3, false, FieldU, FieldV, FieldW, FieldRho, FieldE, FieldRhoU, FieldRhoV, FieldRhoW, FieldRhoE)
	add(TermExact, 3, false, FieldT)
	add(TermExact, 3, true, FieldT)
	add(TermExact, 3, false, FieldU, FieldV, FieldW, FieldP, FieldRho)
	add(TermGradient, 3, false, FieldT, FieldU, FieldV, FieldW, FieldP, FieldRho)

	return eps
}

// Entrypoints returns a copy of the dispatch table in declaration order.
func Entrypoints() []Entrypoint {
	out := make([]Entrypoint, len(entrypoints))
	copy(out, entrypoints)
	return out
}

// LookupEntrypoint finds an entry point by its ID.
func LookupEntrypoint(id string) (Entrypoint, bool) {
	id = strings.TrimSpace(id)
	for _, e := range entrypoints {
		if e.ID() == id {
			return e, true
		}
	}
	return Entrypoint{}, false
}
