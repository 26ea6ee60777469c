package verify

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/roach88/masa/internal/ir"
)

// eulerSources are the conserved-variable source fields in flux
// component order: mass, x momentum, y momentum, energy.
var eulerSources = []ir.Field{ir.FieldRho, ir.FieldRhoU, ir.FieldRhoV, ir.FieldRhoE}

// EulerResidual compares the mass, momentum and energy sources of a 1D or
// 2D inviscid flow against the divergence of the Euler flux built from its
// exact rho, u, v and p fields.
func EulerResidual[S ir.Scalar](e Evaluator[S], gamma float64, points []ir.Point[S], s Settings) ([]Result, error) {
	dim := e.Dimension()
	if dim < 1 || dim > 2 {
		return nil, fmt.Errorf("euler residual supports 1D and 2D, got %dD", dim)
	}

	var evalErr error
	exact := func(f ir.Field, q ir.Point[S]) float64 {
		v, err := e.Exact(f, q)
		if err != nil && evalErr == nil {
			evalErr = fmt.Errorf("exact %s at %s: %w", f, q, err)
		}
		return float64(v)
	}

	// flux returns component c of the flux along axis at q.
	flux := func(q ir.Point[S], axis, c int) float64 {
		rho := exact(ir.FieldRho, q)
		u := exact(ir.FieldU, q)
		p := exact(ir.FieldP, q)
		var v float64
		if dim == 2 {
			v = exact(ir.FieldV, q)
		}
		rhoE := p/(gamma-1) + 0.5*rho*(u*u+v*v)
		vel := u
		if axis == 1 {
			vel = v
		}
		switch c {
		case 0:
			return rho * vel
		case 1:
			if axis == 0 {
				return rho*u*u + p
			}
			return rho * u * v
		case 2:
			if axis == 0 {
				return rho * u * v
			}
			return rho*v*v + p
		default:
			return vel * (rhoE + p)
		}
	}

	settings := &fd.Settings{Formula: fd.Central, Step: s.Step}
	var results []Result
	for c, field := range eulerSources {
		if dim == 1 && c == 2 {
			continue
		}
		acc := accumulator{result: Result{Check: "euler_residual", Field: field, Axis: -1}}
		for _, p := range points {
			analytic, err := e.Source(field, p)
			if err != nil {
				return nil, fmt.Errorf("source %s at %s: %w", field, p, err)
			}
			var div float64
			for axis := 0; axis < dim; axis++ {
				along := func(x float64) float64 {
					return flux(p.WithCoord(axis, S(x)), axis, c)
				}
				div += fd.Derivative(along, float64(p.Coord(axis)), settings)
			}
			if evalErr != nil {
				return nil, evalErr
			}
			acc.add(float64(analytic), div)
		}
		results = append(results, acc.finish(s.Tolerance))
	}
	return results, nil
}
