package meshpc

import (
	"math"

	"github.com/unixpickle/essentials"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinDistance computes the smallest distance between any two distinct
// entries of points.
//
// Every unordered pair is compared exactly once, so this takes O(N^2) time.
// If there are fewer than two points, the result is positive infinity.
func MinDistance[F constraints.Float, C Coord[F, C]](points []C) F {
	res := F(math.Inf(1))
	for i, p := range points {
		for _, p1 := range points[i+1:] {
			if d := p.Dist(p1); d < res {
				res = d
			}
		}
	}
	return res
}

// NearestDistances computes, for every point, the exact distance to its
// nearest other point.
//
// If there is only one point, its entry is positive infinity.
func NearestDistances[F constraints.Float, C Coord[F, C]](points []C) []F {
	res := make([]F, len(points))
	essentials.ConcurrentMap(0, len(points), func(i int) {
		best := F(math.Inf(1))
		p := points[i]
		for j, p1 := range points {
			if j == i {
				continue
			}
			if d := p.Dist(p1); d < best {
				best = d
			}
		}
		res[i] = best
	})
	return res
}

// SpacingStats summarizes nearest-neighbor distances in a point set.
type SpacingStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Spacing computes statistics over the nearest-neighbor distances of the
// points.
//
// The Min field always equals MinDistance(points).
func Spacing[F constraints.Float, C Coord[F, C]](points []C) SpacingStats {
	if len(points) < 2 {
		inf := math.Inf(1)
		return SpacingStats{Min: inf, Max: inf, Mean: inf}
	}
	nearest := NearestDistances[F, C](points)
	values := make([]float64, len(nearest))
	for i, x := range nearest {
		values[i] = float64(x)
	}
	mean, std := stat.MeanStdDev(values, nil)
	return SpacingStats{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}
}
