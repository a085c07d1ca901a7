package meshpc

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
)

// RenderOptions controls how RenderCloud draws a point cloud.
//
// Zero fields are replaced by defaults.
type RenderOptions struct {
	// PointRadius is the radius of the sphere drawn at each point.
	// Defaults to a fraction of the bounding box diagonal.
	PointRadius float64

	// NormalLength is the length of the stick drawn along each normal.
	// Defaults to a fraction of the bounding box diagonal.
	NormalLength float64

	ImageSize int
	GridSize  int

	// Frames and FPS are only used for GIF outputs.
	Frames int
	FPS    float64
}

func (r RenderOptions) withDefaults(cloud *PointCloud) RenderOptions {
	diag := cloud.Min().Dist(cloud.Max())
	if diag == 0 {
		diag = 1
	}
	if r.PointRadius == 0 {
		r.PointRadius = diag * 0.005
	}
	if r.NormalLength == 0 {
		r.NormalLength = diag * 0.03
	}
	if r.ImageSize == 0 {
		r.ImageSize = 300
	}
	if r.GridSize == 0 {
		r.GridSize = 3
	}
	if r.Frames == 0 {
		r.Frames = 20
	}
	if r.FPS == 0 {
		r.FPS = 10
	}
	return r
}

// CloudMesh creates a mesh with a small sphere at every point, and a thin
// prism along each normal if the cloud has normals.
func CloudMesh(cloud *PointCloud, pointRadius, normalLength float64) *model3d.Mesh {
	res := model3d.NewMesh()
	for i, p := range cloud.Points {
		model3d.NewMeshIcosphere(p, pointRadius, 1).Iterate(func(t *model3d.Triangle) {
			res.Add(t)
		})
		if cloud.HasNormals() && normalLength > 0 {
			for _, t := range normalStick(p, cloud.Normals[i], pointRadius/3, normalLength) {
				res.Add(t)
			}
		}
	}
	return res
}

// normalStick creates a closed triangular prism starting at p and
// extending along n.
func normalStick(p, n model3d.Coord3D, radius, length float64) []*model3d.Triangle {
	norm := n.Norm()
	if norm == 0 {
		return nil
	}
	n = n.Scale(1 / norm)
	axis := model3d.X(1)
	if math.Abs(n.X) > 0.9 {
		axis = model3d.Y(1)
	}
	u := n.Cross(axis).Normalize()
	v := n.Cross(u)

	var base, top [3]model3d.Coord3D
	for k := 0; k < 3; k++ {
		theta := 2 * math.Pi * float64(k) / 3
		base[k] = p.Add(u.Scale(radius * math.Cos(theta))).Add(v.Scale(radius * math.Sin(theta)))
		top[k] = base[k].Add(n.Scale(length))
	}
	res := []*model3d.Triangle{
		{base[0], base[2], base[1]},
		{top[0], top[1], top[2]},
	}
	for k := 0; k < 3; k++ {
		next := (k + 1) % 3
		res = append(
			res,
			&model3d.Triangle{base[k], base[next], top[next]},
			&model3d.Triangle{base[k], top[next], top[k]},
		)
	}
	return res
}

// RenderCloud renders the cloud to an image file.
//
// Paths ending in .gif produce a rotating animation, and other paths
// produce a grid of renderings from random viewpoints.
func RenderCloud(path string, cloud *PointCloud, opts RenderOptions) error {
	if cloud.Len() == 0 {
		return errors.New("render cloud: cloud is empty")
	}
	opts = opts.withDefaults(cloud)
	mesh := CloudMesh(cloud, opts.PointRadius, opts.NormalLength)
	object := render3d.Objectify(model3d.MeshToCollider(mesh), nil)

	var err error
	if strings.ToLower(filepath.Ext(path)) == ".gif" {
		err = render3d.SaveRotatingGIF(
			path,
			object,
			model3d.Z(1),
			model3d.YZ(-1, 0.1).Normalize(),
			opts.ImageSize,
			opts.Frames,
			opts.FPS,
			nil,
		)
	} else {
		err = render3d.SaveRandomGrid(path, object, opts.GridSize, opts.GridSize, opts.ImageSize, nil)
	}
	if err != nil {
		return errors.Wrap(err, "render cloud")
	}
	return nil
}
