package meshpc

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
)

const (
	DefaultInitFactor = 10

	// samplerChunkSize is the number of points generated by each seeded
	// random generator, so that results do not depend on scheduling.
	samplerChunkSize = 1024
)

// A SurfaceSampler draws points from the surface of a mesh.
type SurfaceSampler interface {
	Sample(m *Mesh, n int) (*PointCloud, error)
}

// A UniformSampler samples points uniformly by surface area.
//
// Normals are interpolated from vertex normals when the mesh has them, or
// taken from the containing triangle otherwise.
type UniformSampler struct {
	Seed int64
}

// Sample produces exactly n points on the mesh surface.
func (u *UniformSampler) Sample(m *Mesh, n int) (*PointCloud, error) {
	if n < 0 {
		return nil, errors.Errorf("uniform sample: invalid point count %d", n)
	}
	ts, err := newTriangleSampler(m)
	if err != nil {
		return nil, errors.Wrap(err, "uniform sample")
	}
	res := &PointCloud{
		Points:  make([]model3d.Coord3D, n),
		Normals: make([]model3d.Coord3D, n),
	}
	numChunks := (n + samplerChunkSize - 1) / samplerChunkSize
	essentials.ConcurrentMap(0, numChunks, func(chunk int) {
		gen := rand.New(rand.NewSource(u.Seed + int64(chunk)))
		start := chunk * samplerChunkSize
		end := start + samplerChunkSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			res.Points[i], res.Normals[i] = ts.Sample(gen)
		}
	})
	return res, nil
}

// A PoissonDiskSampler produces evenly spaced surface points by first
// drawing InitFactor times as many uniform samples as requested, and then
// eliminating samples in crowded regions until the requested count
// remains.
type PoissonDiskSampler struct {
	// InitFactor is the ratio of initial candidates to final points.
	// If zero, DefaultInitFactor is used.
	InitFactor int

	Seed int64
}

// Sample produces exactly n points on the mesh surface.
func (p *PoissonDiskSampler) Sample(m *Mesh, n int) (*PointCloud, error) {
	factor := p.InitFactor
	if factor == 0 {
		factor = DefaultInitFactor
	}
	if factor < 1 {
		return nil, errors.Errorf("poisson disk sample: invalid init factor %d", factor)
	}
	if n < 0 {
		return nil, errors.Errorf("poisson disk sample: invalid point count %d", n)
	}
	area := m.Area()
	if area == 0 {
		return nil, errors.New("poisson disk sample: mesh has no surface area")
	}
	if n == 0 {
		return &PointCloud{Points: []model3d.Coord3D{}, Normals: []model3d.Coord3D{}}, nil
	}
	candidates, err := (&UniformSampler{Seed: p.Seed}).Sample(m, n*factor)
	if err != nil {
		return nil, errors.Wrap(err, "poisson disk sample")
	}
	if factor == 1 {
		return candidates, nil
	}
	return eliminateSamples(candidates, n, area), nil
}

type triangleSampler struct {
	mesh       *Mesh
	cumulative []float64
}

func newTriangleSampler(m *Mesh) (*triangleSampler, error) {
	res := &triangleSampler{
		mesh:       m,
		cumulative: make([]float64, len(m.Triangles)),
	}
	var total float64
	for i, t := range m.Triangles {
		total += t.Area()
		res.cumulative[i] = total
	}
	if total == 0 {
		return nil, errors.New("mesh has no surface area")
	}
	return res, nil
}

// Sample picks a triangle with probability proportional to its area, and
// then a uniformly random point within it.
func (t *triangleSampler) Sample(gen *rand.Rand) (point, normal model3d.Coord3D) {
	total := t.cumulative[len(t.cumulative)-1]
	idx := sort.SearchFloat64s(t.cumulative, gen.Float64()*total)
	if idx >= len(t.cumulative) {
		idx = len(t.cumulative) - 1
	}
	tri := t.mesh.Triangles[idx]

	s := math.Sqrt(gen.Float64())
	r := gen.Float64()
	a, b, c := 1-s, s*(1-r), s*r
	point = tri[0].Scale(a).Add(tri[1].Scale(b)).Add(tri[2].Scale(c))
	normal = t.mesh.normalAt(tri, a, b, c)
	return
}
