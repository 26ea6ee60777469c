package solution

import (
	"fmt"
	"strings"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/param"
)

// Solution is the capability set of one manufactured-solution instance.
type Solution[S ir.Scalar] interface {
	// Name returns the canonical kind name. It is never empty for a
	// well-formed kind.
	Name() ir.KindName

	// Dimension returns the spatial dimensionality (1 to 3).
	Dimension() int

	// Params returns the instance's parameter store.
	Params() *param.Store[S]

	// InitParams sets every declared parameter to its documented default.
	InitParams() error

	// Source evaluates the source term of field f at p.
	Source(f ir.Field, p ir.Point[S]) (S, error)

	// Exact evaluates the analytical value of field f at p.
	Exact(f ir.Field, p ir.Point[S]) (S, error)

	// Gradient evaluates component axis (0-based) of the gradient of f at p.
	Gradient(f ir.Field, p ir.Point[S], axis int) (S, error)

	// SanityCheck fails when a declared parameter is unset.
	SanityCheck() error

	// PolyTest checks the formulas against each other numerically.
	PolyTest() error
}

// Base carries the identity and parameter store shared by every kind and
// answers every evaluation as unsupported. Kinds embed it and override
// what they implement.
type Base[S ir.Scalar] struct {
	name   ir.KindName
	dim    int
	params *param.Store[S]
}

// NewBase returns a Base for kind name with the given dimensionality.
func NewBase[S ir.Scalar](name ir.KindName, dim int) Base[S] {
	return Base[S]{name: name, dim: dim, params: param.New[S]()}
}

func (b *Base[S]) Name() ir.KindName { return b.name }
func (b *Base[S]) Dimension() int { return b.dim }
func (b *Base[S]) Params() *param.Store[S] { return b.params }
func (b *Base[S]) InitParams() error { return b.params.InitDefaults() }
func (b *Base[S]) PolyTest() error { return b.SanityCheck() }

func (b *Base[S]) Source(f ir.Field, p ir.Point[S]) (S, error) {
	return 0, b.Unsupported(ir.TermSource, f, p)
}

func (b *Base[S]) Exact(f ir.Field, p ir.Point[S]) (S, error) {
	return 0, b.Unsupported(ir.TermExact, f, p)
}

func (b *Base[S]) Gradient(f ir.Field, p ir.Point[S], axis int) (S, error) {
	return 0, b.Unsupported(ir.TermGradient, f, p)
}

// SanityCheck reports every declared parameter that holds no value.
func (b *Base[S]) SanityCheck() error {
	missing := b.params.Missing()
	if len(missing) == 0 {
		return nil
	}
	return &CheckError{
		Kind:   b.name,
		Check:  "sanity check",
		Detail: "unset parameters: " + strings.Join(missing, ", "),
	}
}

// Unsupported builds the error for an evaluation the kind lacks.
func (b *Base[S]) Unsupported(term ir.Term, f ir.Field, p ir.Point[S]) error {
	return &UnsupportedError{
		Kind:       b.name,
		Entrypoint: ir.Entrypoint{Term: term, Field: f, Dim: p.Dim(), Timed: p.Timed()},
	}
}

// checkPoint rejects points whose shape does not match the kind.
func (b *Base[S]) checkPoint(term ir.Term, f ir.Field, p ir.Point[S], timed bool) error {
	if p.Dim() != b.dim || p.Timed() != timed {
		return b.Unsupported(term, f, p)
	}
	return nil
}

// checkAxis rejects gradient components outside the point's dimension.
func (b *Base[S]) checkAxis(f ir.Field, p ir.Point[S], axis int) error {
	if axis < 0 || axis >= p.Dim() {
		return &UnsupportedError{
			Kind:       b.name,
			Entrypoint: ir.Entrypoint{Term: ir.TermGradient, Field: f, Dim: p.Dim(), Timed: p.Timed()},
			Detail:     fmt.Sprintf("gradient component %d out of range", axis),
		}
	}
	return nil
}

// reader pulls parameters as float64, remembering the first failure so
// formula bodies can read a whole set before checking once.
type reader[S ir.Scalar] struct {
	store *param.Store[S]
	err   error
}

func (r *reader[S]) get(name string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.store.Get(name)
	if err != nil {
		r.err = err
		return 0
	}
	return float64(v)
}
