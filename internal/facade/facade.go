package facade

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/param"
	"github.com/roach88/masa/internal/registry"
	"github.com/roach88/masa/internal/solution"
)

// Facade forwards calls to the active instance of a registry.
type Facade[S ir.Scalar] struct {
	reg *registry.Registry[S]
}

// New wraps reg.
func New[S ir.Scalar](reg *registry.Registry[S]) *Facade[S] {
	return &Facade[S]{reg: reg}
}

// Registry returns the wrapped registry.
func (f *Facade[S]) Registry() *registry.Registry[S] { return f.reg }

// Precision returns the domain of the wrapped registry.
func (f *Facade[S]) Precision() ir.Precision { return f.reg.Precision() }

// Init creates an instance of kind under user and activates it.
func (f *Facade[S]) Init(user ir.UserName, kind string) error {
	_, err := f.reg.Initialize(user, kind)
	return err
}

// Select activates the instance stored under user.
func (f *Facade[S]) Select(user ir.UserName) error {
	return f.reg.Select(user)
}

// List returns every (user name, kind name) pair.
func (f *Facade[S]) List() []ir.Binding {
	return f.reg.List()
}

// PrintKinds writes the catalog listing.
func (f *Facade[S]) PrintKinds(w io.Writer) error {
	return f.reg.Catalog().Print(w)
}

func (f *Facade[S]) active() (solution.Solution[S], error) {
	return f.reg.Active()
}

// GetParam reads a parameter of the active instance.
func (f *Facade[S]) GetParam(name string) (S, error) {
	sol, err := f.active()
	if err != nil {
		return 0, err
	}
	v, err := sol.Params().Get(name)
	if err != nil {
		return 0, f.reg.Fail(err)
	}
	return v, nil
}

// SetParam writes a parameter of the active instance.
func (f *Facade[S]) SetParam(name string, v S) error {
	sol, err := f.active()
	if err != nil {
		return err
	}
	sol.Params().Set(name, v)
	return nil
}

// InitParams sets every declared parameter of the active instance to its
// default.
func (f *Facade[S]) InitParams() error {
	sol, err := f.active()
	if err != nil {
		return err
	}
	if err := sol.InitParams(); err != nil {
		return f.reg.Fail(err)
	}
	return nil
}

// PurgeParams clears every parameter of the active instance.
func (f *Facade[S]) PurgeParams() error {
	sol, err := f.active()
	if err != nil {
		return err
	}
	sol.Params().Purge()
	return nil
}

// Params enumerates the parameters of the active instance.
func (f *Facade[S]) Params() ([]param.Entry[S], error) {
	sol, err := f.active()
	if err != nil {
		return nil, err
	}
	return sol.Params().Enumerate(), nil
}

// DisplayParams writes the parameters of the active instance.
func (f *Facade[S]) DisplayParams(w io.Writer) error {
	sol, err := f.active()
	if err != nil {
		return err
	}
	return sol.Params().Display(w)
}

// Source evaluates the source term of field at p.
func (f *Facade[S]) Source(field ir.Field, p ir.Point[S]) (S, error) {
	sol, err := f.active()
	if err != nil {
		return 0, err
	}
	v, err := sol.Source(field, p)
	if err != nil {
		return 0, f.reg.Fail(err)
	}
	return v, nil
}

// Exact evaluates the analytical value of field at p.
func (f *Facade[S]) Exact(field ir.Field, p ir.Point[S]) (S, error) {
	sol, err := f.active()
	if err != nil {
		return 0, err
	}
	v, err := sol.Exact(field, p)
	if err != nil {
		return 0, f.reg.Fail(err)
	}
	return v, nil
}

// Gradient evaluates component axis (0-based) of the gradient of field.
func (f *Facade[S]) Gradient(field ir.Field, p ir.Point[S], axis int) (S, error) {
	sol, err := f.active()
	if err != nil {
		return 0, err
	}
	v, err := sol.Gradient(field, p, axis)
	if err != nil {
		return 0, f.reg.Fail(err)
	}
	return v, nil
}

// ErrUnknownEntrypoint is returned by EvalID for an id not in the
// entry point table.
var ErrUnknownEntrypoint = errors.New("unknown entry point")

// ArityError reports an argument count that does not match an entry
// point.
type ArityError struct {
	Entrypoint ir.Entrypoint
	Got        int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s takes %d arguments, got %d", e.Entrypoint.ID(), e.Entrypoint.Arity(), e.Got)
}

// ErrInvalidAxis is returned by Eval when a gradient axis argument is not
// a whole number.
var ErrInvalidAxis = errors.New("invalid gradient axis")

// Eval calls entry point ep with args laid out as x[, y[, z]][, t][, axis].
// Gradient entry points above 1D take the 0-based component axis last;
// 1D gradients take x alone. Only the argument count and the axis are
// checked.
func (f *Facade[S]) Eval(ep ir.Entrypoint, args ...S) (S, error) {
	if len(args) != ep.Arity() {
		return 0, f.invalid(ep.ID(), &ArityError{Entrypoint: ep, Got: len(args)})
	}

	p, err := ir.PointOf(args[:ep.Dim])
	if err != nil {
		return 0, f.invalid(ep.ID(), err)
	}
	if ep.Timed {
		p = p.WithTime(args[ep.Dim])
	}

	switch ep.Term {
	case ir.TermSource:
		return f.Source(ep.Field, p)
	case ir.TermExact:
		return f.Exact(ep.Field, p)
	}

	axis := 0
	if ep.TakesAxis() {
		a := float64(args[len(args)-1])
		if a != math.Trunc(a) || math.IsInf(a, 0) {
			return 0, f.invalid(ep.ID(), fmt.Errorf("%s: %w %s", ep.ID(), ErrInvalidAxis, ir.FormatScalar(args[len(args)-1])))
		}
		axis = int(a)
	}
	return f.Gradient(ep.Field, p, axis)
}

// EvalID is Eval keyed by entry point id, e.g. "source_u_2d".
func (f *Facade[S]) EvalID(id string, args ...S) (S, error) {
	ep, ok := ir.LookupEntrypoint(id)
	if !ok {
		return 0, f.invalid(id, fmt.Errorf("%w %q", ErrUnknownEntrypoint, id))
	}
	return f.Eval(ep, args...)
}

// invalid routes a malformed call through the failure policy.
func (f *Facade[S]) invalid(name string, cause error) error {
	return f.reg.Fail(registry.NewInvalidCall(name, cause))
}

// SanityCheck reports whether every declared parameter of the active
// instance is set.
func (f *Facade[S]) SanityCheck() (bool, error) {
	sol, err := f.active()
	if err != nil {
		return false, err
	}
	return sol.SanityCheck() == nil, nil
}

// PolyTest reports whether the active instance's formulas are consistent.
func (f *Facade[S]) PolyTest() (bool, error) {
	sol, err := f.active()
	if err != nil {
		return false, err
	}
	return sol.PolyTest() == nil, nil
}

// Name returns the canonical kind name of the active instance.
func (f *Facade[S]) Name() (ir.KindName, error) {
	sol, err := f.active()
	if err != nil {
		return "", err
	}
	return sol.Name(), nil
}

// Dimension returns the spatial dimensionality of the active instance.
func (f *Facade[S]) Dimension() (int, error) {
	sol, err := f.active()
	if err != nil {
		return 0, err
	}
	return sol.Dimension(), nil
}
