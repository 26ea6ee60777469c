package ir

import "fmt"

// MaxDim is the highest spatial dimensionality a solution may report.
const MaxDim = 3

// Point is an evaluation location: one to three spatial coordinates and an
// optional time. The zero value is not a valid point; use At1, At2 or At3.
type Point[S Scalar] struct {
	coords  [MaxDim]S
	dim     int
	t       S
	hasTime bool
}

// At1 returns a one-dimensional point.
func At1[S Scalar](x S) Point[S] {
	return Point[S]{coords: [MaxDim]S{x}, dim: 1}
}

// At2 returns a two-dimensional point.
func At2[S Scalar](x, y S) Point[S] {
	return Point[S]{coords: [MaxDim]S{x, y}, dim: 2}
}

// At3 returns a three-dimensional point.
func At3[S Scalar](x, y, z S) Point[S] {
	return Point[S]{coords: [MaxDim]S{x, y, z}, dim: 3}
}

// PointOf builds a point from a coordinate slice of length 1 to 3.
func PointOf[S Scalar](coords []S) (Point[S], error) {
	if len(coords) < 1 || len(coords) > MaxDim {
		return Point[S]{}, fmt.Errorf("point needs 1 to %d coordinates, got %d", MaxDim, len(coords))
	}
	p := Point[S]{dim: len(coords)}
	copy(p.coords[:], coords)
	return p, nil
}

// WithTime returns a copy of p carrying time t.
func (p Point[S]) WithTime(t S) Point[S] {
	p.t = t
	p.hasTime = true
	return p
}

// Dim returns the number of spatial coordinates.
func (p Point[S]) Dim() int { return p.dim }

// X returns the first coordinate.
func (p Point[S]) X() S { return p.coords[0] }

// Y returns the second coordinate (zero for 1D points).
func (p Point[S]) Y() S { return p.coords[1] }

// Z returns the third coordinate (zero for 1D and 2D points).
func (p Point[S]) Z() S { return p.coords[2] }

// Coord returns coordinate i (0-based).
func (p Point[S]) Coord(i int) S { return p.coords[i] }

// Time returns the time coordinate and whether one was set.
func (p Point[S]) Time() (S, bool) { return p.t, p.hasTime }

// Timed reports whether the point carries a time coordinate.
func (p Point[S]) Timed() bool { return p.hasTime }

// Shift returns a copy of p with coordinate axis moved by h.
func (p Point[S]) Shift(axis int, h S) Point[S] {
	p.coords[axis] += h
	return p
}

// WithCoord returns a copy of p with coordinate axis set to v.
func (p Point[S]) WithCoord(axis int, v S) Point[S] {
	p.coords[axis] = v
	return p
}

// Float64s returns the spatial coordinates widened to float64.
func (p Point[S]) Float64s() []float64 {
	out := make([]float64, p.dim)
	for i := 0; i < p.dim; i++ {
		out[i] = float64(p.coords[i])
	}
	return out
}

// String renders the point for diagnostics.
func (p Point[S]) String() string {
	s := "("
	for i := 0; i < p.dim; i++ {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%g", float64(p.coords[i]))
	}
	if p.hasTime {
		s += fmt.Sprintf("; t=%g", float64(p.t))
	}
	return s + ")"
}
