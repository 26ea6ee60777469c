package verify

import "github.com/roach88/masa/internal/ir"

// sampleCoords avoid the symmetry points of the trigonometric families.
var sampleCoords = [][ir.MaxDim]float64{
	{0.13, 0.41, 0.29},
	{0.41, 0.77, 0.63},
	{0.77, 1.29, 0.11},
	{1.29, 0.13, 0.97},
}

var sampleTimes = []float64{0.35, 0.8, 1.45, 2.2}

// SamplePoints returns the fixed interior points used by self-checks.
func SamplePoints[S ir.Scalar](dim int, timed bool) []ir.Point[S] {
	points := make([]ir.Point[S], 0, len(sampleCoords))
	for i, c := range sampleCoords {
		coords := make([]S, dim)
		for j := range coords {
			coords[j] = S(c[j])
		}
		p, err := ir.PointOf(coords)
		if err != nil {
			panic(err)
		}
		if timed {
			p = p.WithTime(S(sampleTimes[i]))
		}
		points = append(points, p)
	}
	return points
}
