package meshpc

import (
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/constraints"
)

// A Coord is any point type with a metric distance to other points of the
// same type, such as model3d.Coord3D or model2d.Coord.
type Coord[F constraints.Float, Self any] interface {
	Dist(Self) F
}

// A PointCloud is an ordered set of sampled surface points.
//
// Normals is either nil, or has one unit normal per point.
type PointCloud struct {
	Points  []model3d.Coord3D
	Normals []model3d.Coord3D
}

func (p *PointCloud) Len() int {
	return len(p.Points)
}

func (p *PointCloud) HasNormals() bool {
	return p.Normals != nil
}

// Min gets the minimum corner of the cloud's bounding box.
func (p *PointCloud) Min() model3d.Coord3D {
	if len(p.Points) == 0 {
		return model3d.Origin
	}
	res := p.Points[0]
	for _, c := range p.Points[1:] {
		res = res.Min(c)
	}
	return res
}

// Max gets the maximum corner of the cloud's bounding box.
func (p *PointCloud) Max() model3d.Coord3D {
	if len(p.Points) == 0 {
		return model3d.Origin
	}
	res := p.Points[0]
	for _, c := range p.Points[1:] {
		res = res.Max(c)
	}
	return res
}
