package verify

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/roach88/masa/internal/ir"
)

// Evaluator is the slice of a solution the checks need.
type Evaluator[S ir.Scalar] interface {
	Name() ir.KindName
	Dimension() int
	Source(f ir.Field, p ir.Point[S]) (S, error)
	Exact(f ir.Field, p ir.Point[S]) (S, error)
	Gradient(f ir.Field, p ir.Point[S], axis int) (S, error)
}

// Tolerance bounds the difference between an analytic value and its
// numerical reference. Rel is applied against the largest analytic
// magnitude seen by the check, so values crossing zero are not
// over-penalised.
type Tolerance struct {
	Abs float64 `json:"abs"`
	Rel float64 `json:"rel"`
}

// Settings control one verification run.
type Settings struct {
	Tolerance Tolerance
	// Step is the finite-difference step for first derivatives.
	Step float64
	// Step2 is the step for second derivatives.
	Step2 float64
}

// DefaultSettings returns settings suited to the precision of S.
func DefaultSettings[S ir.Scalar]() Settings {
	if ir.PrecisionOf[S]() == ir.PrecisionSingle {
		return Settings{Tolerance: Tolerance{Abs: 1e-3, Rel: 1e-2}, Step: 1e-2, Step2: 2e-2}
	}
	return Settings{Tolerance: Tolerance{Abs: 1e-7, Rel: 1e-5}, Step: 1e-5, Step2: 1e-4}
}

// Result is the outcome of one check over a set of points.
type Result struct {
	Check     string   `json:"check"`
	Field     ir.Field `json:"field"`
	Axis      int      `json:"axis"`
	Points    int      `json:"points"`
	MaxAbsErr float64  `json:"max_abs_err"`
	Scale     float64  `json:"scale"`
	Passed    bool     `json:"passed"`
}

// String renders the result on one line.
func (r Result) String() string {
	status := "ok"
	if !r.Passed {
		status = "FAIL"
	}
	return fmt.Sprintf("%-4s %s[%s,%d] points=%d max_abs_err=%.3g scale=%.3g",
		status, r.Check, r.Field, r.Axis, r.Points, r.MaxAbsErr, r.Scale)
}

// ErrCheckFailed is wrapped by Report.Err when any result failed.
var ErrCheckFailed = errors.New("consistency check failed")

// Report collects the results for one kind.
type Report struct {
	Kind    ir.KindName `json:"kind"`
	Results []Result    `json:"results"`
}

// Add appends results.
func (r *Report) Add(results ...Result) {
	r.Results = append(r.Results, results...)
}

// Passed reports whether every result passed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// MaxAbsErr returns the largest error over all results.
func (r *Report) MaxAbsErr() float64 {
	var m float64
	for _, res := range r.Results {
		m = math.Max(m, res.MaxAbsErr)
	}
	return m
}

// Err returns nil when every result passed, otherwise an error wrapping
// ErrCheckFailed that names the failing checks.
func (r *Report) Err() error {
	var failed []string
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res.String())
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w: %s", r.Kind, ErrCheckFailed, strings.Join(failed, "; "))
}

// accumulator tracks analytic/reference pairs for one check.
type accumulator struct {
	result   Result
	analytic []float64
	numeric  []float64
}

func (a *accumulator) add(analytic, numeric float64) {
	a.analytic = append(a.analytic, analytic)
	a.numeric = append(a.numeric, numeric)
}

func (a *accumulator) finish(tol Tolerance) Result {
	res := a.result
	res.Points = len(a.analytic)
	for _, v := range a.analytic {
		res.Scale = math.Max(res.Scale, math.Abs(v))
	}
	res.Passed = true
	absTol := tol.Abs + tol.Rel*res.Scale
	for i, v := range a.analytic {
		err := math.Abs(v - a.numeric[i])
		res.MaxAbsErr = math.Max(res.MaxAbsErr, err)
		if math.IsNaN(v) || !scalar.EqualWithinAbsOrRel(v, a.numeric[i], absTol, tol.Rel) {
			res.Passed = false
		}
	}
	return res
}

// exactAlong returns x -> Exact(f, p with coordinate axis set to x).
// axis == -1 varies time.
func exactAlong[S ir.Scalar](e Evaluator[S], f ir.Field, p ir.Point[S], axis int, errp *error) func(float64) float64 {
	return func(x float64) float64 {
		q := p
		if axis < 0 {
			q = p.WithTime(S(x))
		} else {
			q = p.WithCoord(axis, S(x))
		}
		v, err := e.Exact(f, q)
		if err != nil && *errp == nil {
			*errp = err
		}
		return float64(v)
	}
}

// Gradients compares Gradient against central differences of Exact for
// every field, axis and point.
func Gradients[S ir.Scalar](e Evaluator[S], fields []ir.Field, points []ir.Point[S], s Settings) ([]Result, error) {
	settings := &fd.Settings{Formula: fd.Central, Step: s.Step}
	var results []Result
	for _, f := range fields {
		for axis := 0; axis < e.Dimension(); axis++ {
			acc := accumulator{result: Result{Check: "gradient", Field: f, Axis: axis}}
			for _, p := range points {
				analytic, err := e.Gradient(f, p, axis)
				if err != nil {
					return nil, fmt.Errorf("gradient %s axis %d at %s: %w", f, axis, p, err)
				}
				var evalErr error
				numeric := fd.Derivative(exactAlong(e, f, p, axis, &evalErr), float64(p.Coord(axis)), settings)
				if evalErr != nil {
					return nil, fmt.Errorf("exact %s at %s: %w", f, p, evalErr)
				}
				acc.add(float64(analytic), numeric)
			}
			results = append(results, acc.finish(s.Tolerance))
		}
	}
	return results, nil
}

// HeatCoefficients are the constant material properties of
// rhoCp*dT/dt - k*lap(T) = Q.
type HeatCoefficients struct {
	K     float64
	RhoCp float64
}

// HeatResidual compares the temperature source against the heat equation
// residual of the exact temperature. Points carrying a time include the
// rhoCp*dT/dt term.
func HeatResidual[S ir.Scalar](e Evaluator[S], c HeatCoefficients, points []ir.Point[S], s Settings) (Result, error) {
	acc := accumulator{result: Result{Check: "heat_residual", Field: ir.FieldT, Axis: -1}}
	lapSettings := &fd.Settings{Formula: fd.Central2nd, Step: s.Step2}
	dtSettings := &fd.Settings{Formula: fd.Central, Step: s.Step}
	for _, p := range points {
		analytic, err := e.Source(ir.FieldT, p)
		if err != nil {
			return Result{}, fmt.Errorf("source t at %s: %w", p, err)
		}

		var evalErr error
		spatial := func(x []float64) float64 {
			q := p
			for i := range x {
				q = q.WithCoord(i, S(x[i]))
			}
			v, err := e.Exact(ir.FieldT, q)
			if err != nil && evalErr == nil {
				evalErr = err
			}
			return float64(v)
		}
		numeric := -c.K * fd.Laplacian(spatial, p.Float64s(), lapSettings)
		if t, ok := p.Time(); ok && c.RhoCp != 0 {
			numeric += c.RhoCp * fd.Derivative(exactAlong(e, ir.FieldT, p, -1, &evalErr), float64(t), dtSettings)
		}
		if evalErr != nil {
			return Result{}, fmt.Errorf("exact t at %s: %w", p, evalErr)
		}
		acc.add(float64(analytic), numeric)
	}
	return acc.finish(s.Tolerance), nil
}
