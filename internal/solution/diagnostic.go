package solution

import (
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/verify"
)

// Canonical names of the diagnostic kinds.
const (
	KindTestFunction ir.KindName = "masa_test_function"
	KindUninit       ir.KindName = "masa_uninit"
)

// TestFunction is a 1D quadratic used to exercise the dispatch surface:
// T = demo_var_1*x^2 + demo_var_2*x + demo_var_3 with source -T''.
type TestFunction[S ir.Scalar] struct {
	Base[S]
}

// NewTestFunction returns a masa_test_function instance.
func NewTestFunction[S ir.Scalar]() Solution[S] {
	k := &TestFunction[S]{Base: NewBase[S](KindTestFunction, 1)}
	k.params.Declare("demo_var_1", 1)
	k.params.Declare("demo_var_2", 2)
	k.params.Declare("demo_var_3", 3)
	return k
}

func (k *TestFunction[S]) coeffs() (a, b, c float64, err error) {
	r := reader[S]{store: k.params}
	a, b, c = r.get("demo_var_1"), r.get("demo_var_2"), r.get("demo_var_3")
	return a, b, c, r.err
}

func (k *TestFunction[S]) Source(f ir.Field, p ir.Point[S]) (S, error) {
	if f != ir.FieldT {
		return k.Base.Source(f, p)
	}
	if err := k.checkPoint(ir.TermSource, f, p, false); err != nil {
		return 0, err
	}
	a, _, _, err := k.coeffs()
	if err != nil {
		return 0, err
	}
	return S(-2 * a), nil
}

func (k *TestFunction[S]) Exact(f ir.Field, p ir.Point[S]) (S, error) {
	if f != ir.FieldT {
		return k.Base.Exact(f, p)
	}
	if err := k.checkPoint(ir.TermExact, f, p, false); err != nil {
		return 0, err
	}
	a, b, c, err := k.coeffs()
	if err != nil {
		return 0, err
	}
	x := float64(p.X())
	return S(a*x*x + b*x + c), nil
}

func (k *TestFunction[S]) Gradient(f ir.Field, p ir.Point[S], axis int) (S, error) {
	if f != ir.FieldT {
		return k.Base.Gradient(f, p, axis)
	}
	if err := k.checkPoint(ir.TermGradient, f, p, false); err != nil {
		return 0, err
	}
	if err := k.checkAxis(f, p, axis); err != nil {
		return 0, err
	}
	a, b, _, err := k.coeffs()
	if err != nil {
		return 0, err
	}
	return S(2*a*float64(p.X()) + b), nil
}

func (k *TestFunction[S]) PolyTest() error { return polyTest[S](k, k.checks) }

func (k *TestFunction[S]) checks(r *verify.Report, s verify.Settings) error {
	points := verify.SamplePoints[S](1, false)
	grads, err := verify.Gradients[S](k, []ir.Field{ir.FieldT}, points, s)
	if err != nil {
		return err
	}
	r.Add(grads...)
	res, err := verify.HeatResidual[S](k, verify.HeatCoefficients{K: 1}, points, s)
	if err != nil {
		return err
	}
	r.Add(res)
	return nil
}

// Uninit declares a parameter with no default so that an instance stays
// unconfigured: InitParams reports the gap and SanityCheck fails until the
// caller sets "dummy".
type Uninit[S ir.Scalar] struct {
	Base[S]
}

// NewUninit returns a masa_uninit instance.
func NewUninit[S ir.Scalar]() Solution[S] {
	k := &Uninit[S]{Base: NewBase[S](KindUninit, 1)}
	k.params.DeclareRequired("dummy")
	return k
}
