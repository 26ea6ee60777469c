package solution

import (
	"fmt"
	"math"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/verify"
)

// Heat is the constant-coefficient heat equation
//
//	rho*cp_0*dT/dt - k_0*lap(T) = Q
//
// with the manufactured temperature
//
//	T = cos(D_t*t) * prod_i cos(a_i*x_i + b_i*t)
//
// where a = (A_x, B_y, C_z) and b = (A_t, B_t, C_t). Steady kinds drop
// every time term and declare no time parameters.
type Heat[S ir.Scalar] struct {
	Base[S]
	unsteady bool
}

var (
	heatWave = [ir.MaxDim]string{"A_x", "B_y", "C_z"}
	heatRate = [ir.MaxDim]string{"A_t", "B_t", "C_t"}
)

var heatDefaults = map[string]float64{
	"A_x": 2.4, "B_y": 1.8, "C_z": 1.2,
	"A_t": 0.75, "B_t": 0.5, "C_t": 0.25,
	"D_t": 1.5, "k_0": 1.002, "cp_0": 1.2, "rho": 1.1,
}

// HeatKind returns the canonical name of the heat kind.
func HeatKind(dim int, unsteady bool) ir.KindName {
	if unsteady {
		return ir.KindName(fmt.Sprintf("heat_%dd_unsteady_const", dim))
	}
	return ir.KindName(fmt.Sprintf("heat_%dd_steady_const", dim))
}

// NewHeat returns a constant-coefficient heat instance.
func NewHeat[S ir.Scalar](dim int, unsteady bool) Solution[S] {
	k := &Heat[S]{Base: NewBase[S](HeatKind(dim, unsteady), dim), unsteady: unsteady}
	for i := 0; i < dim; i++ {
		k.params.Declare(heatWave[i], S(heatDefaults[heatWave[i]]))
		if unsteady {
			k.params.Declare(heatRate[i], S(heatDefaults[heatRate[i]]))
		}
	}
	if unsteady {
		k.params.Declare("D_t", S(heatDefaults["D_t"]))
		k.params.Declare("cp_0", S(heatDefaults["cp_0"]))
		k.params.Declare("rho", S(heatDefaults["rho"]))
	}
	k.params.Declare("k_0", S(heatDefaults["k_0"]))
	return k
}

// heatState is T's factors evaluated at one point.
type heatState struct {
	dim      int
	a, b     [ir.MaxDim]float64
	cos, sin [ir.MaxDim]float64
	dt       float64
	cosD     float64
	sinD     float64
	k, rhoCp float64
}

func (k *Heat[S]) state(p ir.Point[S]) (heatState, error) {
	r := reader[S]{store: k.params}
	st := heatState{dim: k.dim, cosD: 1}
	var t float64
	if k.unsteady {
		tv, _ := p.Time()
		t = float64(tv)
		st.dt = r.get("D_t")
		st.rhoCp = r.get("rho") * r.get("cp_0")
		st.cosD, st.sinD = math.Cos(st.dt*t), math.Sin(st.dt*t)
	}
	for i := 0; i < k.dim; i++ {
		st.a[i] = r.get(heatWave[i])
		if k.unsteady {
			st.b[i] = r.get(heatRate[i])
		}
		w := st.a[i]*float64(p.Coord(i)) + st.b[i]*t
		st.cos[i], st.sin[i] = math.Cos(w), math.Sin(w)
	}
	st.k = r.get("k_0")
	return st, r.err
}

// prodExcept returns cos(D_t t) times every spatial cosine except skip.
func (st heatState) prodExcept(skip int) float64 {
	v := st.cosD
	for i := 0; i < st.dim; i++ {
		if i != skip {
			v *= st.cos[i]
		}
	}
	return v
}

func (st heatState) temperature() float64 { return st.prodExcept(-1) }

func (st heatState) dTdt() float64 {
	spatial := 1.0
	for i := 0; i < st.dim; i++ {
		spatial *= st.cos[i]
	}
	d := -st.dt * st.sinD * spatial
	for j := 0; j < st.dim; j++ {
		d -= st.b[j] * st.sin[j] * st.prodExcept(j)
	}
	return d
}

func (k *Heat[S]) Source(f ir.Field, p ir.Point[S]) (S, error) {
	if f != ir.FieldT {
		return k.Base.Source(f, p)
	}
	if err := k.checkPoint(ir.TermSource, f, p, k.unsteady); err != nil {
		return 0, err
	}
	st, err := k.state(p)
	if err != nil {
		return 0, err
	}
	var a2 float64
	for i := 0; i < k.dim; i++ {
		a2 += st.a[i] * st.a[i]
	}
	q := st.k * a2 * st.temperature()
	if k.unsteady {
		q += st.rhoCp * st.dTdt()
	}
	return S(q), nil
}

func (k *Heat[S]) Exact(f ir.Field, p ir.Point[S]) (S, error) {
	if f != ir.FieldT {
		return k.Base.Exact(f, p)
	}
	if err := k.checkPoint(ir.TermExact, f, p, k.unsteady); err != nil {
		return 0, err
	}
	st, err := k.state(p)
	if err != nil {
		return 0, err
	}
	return S(st.temperature()), nil
}

func (k *Heat[S]) Gradient(f ir.Field, p ir.Point[S], axis int) (S, error) {
	if f != ir.FieldT {
		return k.Base.Gradient(f, p, axis)
	}
	// Gradients are spatial only; unsteady kinds take them at t = 0 when
	// the point carries no time.
	if p.Dim() != k.dim {
		return 0, k.Unsupported(ir.TermGradient, f, p)
	}
	if err := k.checkAxis(f, p, axis); err != nil {
		return 0, err
	}
	st, err := k.state(p)
	if err != nil {
		return 0, err
	}
	return S(-st.a[axis] * st.sin[axis] * st.prodExcept(axis)), nil
}

func (k *Heat[S]) PolyTest() error { return polyTest[S](k, k.checks) }

func (k *Heat[S]) checks(r *verify.Report, s verify.Settings) error {
	points := verify.SamplePoints[S](k.dim, k.unsteady)
	grads, err := verify.Gradients[S](k, []ir.Field{ir.FieldT}, points, s)
	if err != nil {
		return err
	}
	r.Add(grads...)

	coeffs := verify.HeatCoefficients{K: float64(k.params.MustGet("k_0"))}
	if k.unsteady {
		coeffs.RhoCp = float64(k.params.MustGet("rho") * k.params.MustGet("cp_0"))
	}
	res, err := verify.HeatResidual[S](k, coeffs, points, s)
	if err != nil {
		return err
	}
	r.Add(res)
	return nil
}
