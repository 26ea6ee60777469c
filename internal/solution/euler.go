package solution

import (
	"fmt"
	"math"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/verify"
)

// Euler is the inviscid compressible flow family in one or two
// dimensions. Each primitive field is a constant plus one trigonometric
// mode per axis, e.g. in 2D
//
//	u   = u_0   + u_x sin(a_ux pi x/L)     + u_y cos(a_uy pi y/L)
//	v   = v_0   + v_x cos(a_vx pi x/L)     + v_y sin(a_vy pi y/L)
//	rho = rho_0 + rho_x sin(a_rhox pi x/L) + rho_y cos(a_rhoy pi y/L)
//	p   = p_0   + p_x cos(a_px pi x/L)     + p_y sin(a_py pi y/L)
//
// and the sources are the divergence of the Euler flux of those fields.
type Euler[S ir.Scalar] struct {
	Base[S]
}

type mode struct {
	amp, freq string
	cos       bool
}

type profile struct {
	base  string
	modes [2]mode
}

var eulerProfiles = map[ir.Field]profile{
	ir.FieldU:   {"u_0", [2]mode{{"u_x", "a_ux", false}, {"u_y", "a_uy", true}}},
	ir.FieldV:   {"v_0", [2]mode{{"v_x", "a_vx", true}, {"v_y", "a_vy", false}}},
	ir.FieldRho: {"rho_0", [2]mode{{"rho_x", "a_rhox", false}, {"rho_y", "a_rhoy", true}}},
	ir.FieldP:   {"p_0", [2]mode{{"p_x", "a_px", true}, {"p_y", "a_py", false}}},
}

type eulerParam struct {
	name string
	def  float64
}

var euler1DParams = []eulerParam{
	{"u_0", 70}, {"u_x", 7},
	{"rho_0", 1}, {"rho_x", 0.15},
	{"p_0", 100000}, {"p_x", 20000},
	{"a_px", 1}, {"a_rhox", 1}, {"a_ux", 1},
	{"Gamma", 1.4}, {"mu", 10}, {"L", 3.02},
}

var euler2DExtra = []eulerParam{
	{"u_y", 5}, {"v_0", 90}, {"v_x", 9}, {"v_y", 4},
	{"rho_y", 0.1}, {"p_y", 25000},
	{"a_py", 1.5}, {"a_rhoy", 0.5}, {"a_uy", 1.25}, {"a_vx", 0.75}, {"a_vy", 1.5},
}

// EulerKind returns the canonical name of the Euler kind.
func EulerKind(dim int) ir.KindName {
	return ir.KindName(fmt.Sprintf("euler_%dd", dim))
}

// NewEuler returns a 1D or 2D Euler instance.
func NewEuler[S ir.Scalar](dim int) Solution[S] {
	k := &Euler[S]{Base: NewBase[S](EulerKind(dim), dim)}
	decls := euler1DParams
	if dim == 2 {
		decls = append(append([]eulerParam{}, euler1DParams...), euler2DExtra...)
	}
	for _, d := range decls {
		k.params.Declare(d.name, S(d.def))
	}
	return k
}

// primitive is a field value and its spatial derivatives.
type primitive struct {
	val float64
	d   [2]float64
}

func (k *Euler[S]) primitive(r *reader[S], f ir.Field, p ir.Point[S], l float64) primitive {
	prof := eulerProfiles[f]
	out := primitive{val: r.get(prof.base)}
	for axis := 0; axis < k.dim; axis++ {
		m := prof.modes[axis]
		amp := r.get(m.amp)
		w := r.get(m.freq) * math.Pi / l
		arg := w * float64(p.Coord(axis))
		if m.cos {
			out.val += amp * math.Cos(arg)
			out.d[axis] = -amp * w * math.Sin(arg)
		} else {
			out.val += amp * math.Sin(arg)
			out.d[axis] = amp * w * math.Cos(arg)
		}
	}
	return out
}

// flow is the primitive state at one point.
type flow struct {
	dim   int
	gamma float64
	rho   primitive
	vel   [2]primitive
	p     primitive
}

func (k *Euler[S]) flow(p ir.Point[S]) (flow, error) {
	r := reader[S]{store: k.params}
	l := r.get("L")
	st := flow{dim: k.dim, gamma: r.get("Gamma")}
	st.rho = k.primitive(&r, ir.FieldRho, p, l)
	st.vel[0] = k.primitive(&r, ir.FieldU, p, l)
	if k.dim == 2 {
		st.vel[1] = k.primitive(&r, ir.FieldV, p, l)
	}
	st.p = k.primitive(&r, ir.FieldP, p, l)
	return st, r.err
}

func (st flow) mass() float64 {
	var q float64
	for j := 0; j < st.dim; j++ {
		q += st.rho.d[j]*st.vel[j].val + st.rho.val*st.vel[j].d[j]
	}
	return q
}

func (st flow) momentum(i int) float64 {
	q := st.p.d[i]
	for j := 0; j < st.dim; j++ {
		vi, vj := st.vel[i], st.vel[j]
		q += st.rho.d[j]*vi.val*vj.val + st.rho.val*vi.d[j]*vj.val + st.rho.val*vi.val*vj.d[j]
	}
	return q
}

// energy is div(vel * H) with H = gamma p/(gamma-1) + rho |vel|^2 / 2.
func (st flow) energy() float64 {
	g := st.gamma / (st.gamma - 1)
	var speed2 float64
	for k := 0; k < st.dim; k++ {
		speed2 += st.vel[k].val * st.vel[k].val
	}
	h := g*st.p.val + 0.5*st.rho.val*speed2

	var q float64
	for j := 0; j < st.dim; j++ {
		dh := g*st.p.d[j] + 0.5*st.rho.d[j]*speed2
		for k := 0; k < st.dim; k++ {
			dh += st.rho.val * st.vel[k].val * st.vel[k].d[j]
		}
		q += st.vel[j].d[j]*h + st.vel[j].val*dh
	}
	return q
}

// exactField maps a field to its primitive, reporting false for fields
// this dimensionality lacks.
func (st flow) exactField(f ir.Field) (primitive, bool) {
	switch f {
	case ir.FieldRho:
		return st.rho, true
	case ir.FieldU:
		return st.vel[0], true
	case ir.FieldV:
		return st.vel[1], st.dim == 2
	case ir.FieldP:
		return st.p, true
	}
	return primitive{}, false
}

func (k *Euler[S]) Source(f ir.Field, p ir.Point[S]) (S, error) {
	if err := k.checkPoint(ir.TermSource, f, p, false); err != nil {
		return 0, err
	}
	var eval func(flow) float64
	switch f {
	case ir.FieldRho:
		eval = flow.mass
	case ir.FieldU, ir.FieldRhoU:
		eval = func(st flow) float64 { return st.momentum(0) }
	case ir.FieldV, ir.FieldRhoV:
		if k.dim < 2 {
			return k.Base.Source(f, p)
		}
		eval = func(st flow) float64 { return st.momentum(1) }
	case ir.FieldE, ir.FieldRhoE:
		eval = flow.energy
	default:
		return k.Base.Source(f, p)
	}
	st, err := k.flow(p)
	if err != nil {
		return 0, err
	}
	return S(eval(st)), nil
}

func (k *Euler[S]) Exact(f ir.Field, p ir.Point[S]) (S, error) {
	if err := k.checkPoint(ir.TermExact, f, p, false); err != nil {
		return 0, err
	}
	st, err := k.flow(p)
	if err != nil {
		return 0, err
	}
	v, ok := st.exactField(f)
	if !ok {
		return k.Base.Exact(f, p)
	}
	return S(v.val), nil
}

func (k *Euler[S]) Gradient(f ir.Field, p ir.Point[S], axis int) (S, error) {
	if err := k.checkPoint(ir.TermGradient, f, p, false); err != nil {
		return 0, err
	}
	if err := k.checkAxis(f, p, axis); err != nil {
		return 0, err
	}
	st, err := k.flow(p)
	if err != nil {
		return 0, err
	}
	v, ok := st.exactField(f)
	if !ok {
		return k.Base.Gradient(f, p, axis)
	}
	return S(v.d[axis]), nil
}

func (k *Euler[S]) PolyTest() error { return polyTest[S](k, k.checks) }

func (k *Euler[S]) checks(r *verify.Report, s verify.Settings) error {
	points := verify.SamplePoints[S](k.dim, false)
	fields := []ir.Field{ir.FieldRho, ir.FieldU, ir.FieldP}
	if k.dim == 2 {
		fields = append(fields, ir.FieldV)
	}
	grads, err := verify.Gradients[S](k, fields, points, s)
	if err != nil {
		return err
	}
	r.Add(grads...)

	residuals, err := verify.EulerResidual[S](k, float64(k.params.MustGet("Gamma")), points, s)
	if err != nil {
		return err
	}
	r.Add(residuals...)
	return nil
}
