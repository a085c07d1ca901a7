package meshpc

import (
	"github.com/unixpickle/model3d/model3d"
)

// A Mesh is a triangle mesh with optional per-vertex normals.
//
// Triangles are kept in the order they were read so that seeded sampling is
// reproducible.
type Mesh struct {
	Triangles []*model3d.Triangle

	// VertexNormals maps vertices to unit normals.
	// It is nil if the mesh has no vertex normals.
	VertexNormals map[model3d.Coord3D]model3d.Coord3D
}

// NewMesh creates a mesh without vertex normals.
func NewMesh(tris []*model3d.Triangle) *Mesh {
	return &Mesh{Triangles: tris}
}

func (m *Mesh) NumTriangles() int {
	return len(m.Triangles)
}

func (m *Mesh) HasVertexNormals() bool {
	return m.VertexNormals != nil
}

// Area computes the total surface area.
func (m *Mesh) Area() float64 {
	var res float64
	for _, t := range m.Triangles {
		res += t.Area()
	}
	return res
}

// Model3D creates a model3d.Mesh from the triangles.
func (m *Mesh) Model3D() *model3d.Mesh {
	return model3d.NewMeshTriangles(m.Triangles)
}

// RemoveDegenerate drops zero-area triangles and returns the number of
// triangles removed.
func (m *Mesh) RemoveDegenerate() int {
	kept := m.Triangles[:0]
	for _, t := range m.Triangles {
		if t.Area() != 0 {
			kept = append(kept, t)
		}
	}
	removed := len(m.Triangles) - len(kept)
	for i := len(kept); i < len(m.Triangles); i++ {
		m.Triangles[i] = nil
	}
	m.Triangles = kept
	return removed
}

// ComputeVertexNormals sets every vertex normal to the normalized,
// area-weighted sum of the normals of the triangles touching that vertex.
func (m *Mesh) ComputeVertexNormals() {
	sums := map[model3d.Coord3D]model3d.Coord3D{}
	for _, t := range m.Triangles {
		n := t.Normal().Scale(t.Area())
		for _, c := range t {
			sums[c] = sums[c].Add(n)
		}
	}
	for c, n := range sums {
		if norm := n.Norm(); norm != 0 {
			sums[c] = n.Scale(1 / norm)
		}
	}
	m.VertexNormals = sums
}

// normalAt computes the surface normal at barycentric coordinates within a
// triangle, interpolating vertex normals if available.
func (m *Mesh) normalAt(t *model3d.Triangle, a, b, c float64) model3d.Coord3D {
	if m.VertexNormals == nil {
		return t.Normal()
	}
	n := m.VertexNormals[t[0]].Scale(a).Add(
		m.VertexNormals[t[1]].Scale(b),
	).Add(
		m.VertexNormals[t[2]].Scale(c),
	)
	if norm := n.Norm(); norm > 1e-8 {
		return n.Scale(1 / norm)
	}
	return t.Normal()
}
