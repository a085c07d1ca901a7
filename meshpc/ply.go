package meshpc

import (
	"fmt"
	"io"

	"github.com/chenzhekl/goply"
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

type plyElement = map[string]interface{}

// ReadPLYMesh decodes a polygon mesh from a PLY file.
//
// Polygons with more than three vertices are split into triangle fans.
// If every vertex has nx, ny and nz properties, they are used as vertex
// normals.
func ReadPLYMesh(r io.Reader) (*Mesh, error) {
	elems, err := readPLYElements(r, "vertex", "face")
	if err != nil {
		return nil, errors.Wrap(err, "read PLY mesh")
	}
	coords, normals, err := plyVertices(elems[0])
	if err != nil {
		return nil, errors.Wrap(err, "read PLY mesh")
	}

	res := &Mesh{}
	if normals != nil {
		res.VertexNormals = map[model3d.Coord3D]model3d.Coord3D{}
		for i, c := range coords {
			if n := normals[i].Norm(); n != 0 {
				res.VertexNormals[c] = normals[i].Scale(1 / n)
			}
		}
	}
	for i, face := range elems[1] {
		indices, err := plyFaceIndices(face)
		if err != nil {
			return nil, errors.Wrapf(err, "read PLY mesh: face %d", i)
		}
		if len(indices) < 3 {
			return nil, errors.Errorf("read PLY mesh: face %d has %d vertices", i, len(indices))
		}
		for _, idx := range indices {
			if idx < 0 || idx >= len(coords) {
				return nil, errors.Errorf("read PLY mesh: face %d has invalid vertex %d", i, idx)
			}
		}
		for j := 1; j+1 < len(indices); j++ {
			res.Triangles = append(res.Triangles, &model3d.Triangle{
				coords[indices[0]],
				coords[indices[j]],
				coords[indices[j+1]],
			})
		}
	}
	return res, nil
}

// ReadPLYCloud decodes the vertices of a PLY file as a point cloud.
func ReadPLYCloud(r io.Reader) (*PointCloud, error) {
	elems, err := readPLYElements(r, "vertex")
	if err != nil {
		return nil, errors.Wrap(err, "read PLY cloud")
	}
	coords, normals, err := plyVertices(elems[0])
	if err != nil {
		return nil, errors.Wrap(err, "read PLY cloud")
	}
	return &PointCloud{Points: coords, Normals: normals}, nil
}

func readPLYElements(r io.Reader, names ...string) (res [][]plyElement, err error) {
	// goply panics on malformed headers.
	defer func() {
		if x := recover(); x != nil {
			res = nil
			err = fmt.Errorf("decode: %v", x)
		}
	}()
	ply := goply.New(r)
	for _, name := range names {
		var elems []plyElement
		for _, e := range ply.Elements(name) {
			elems = append(elems, plyElement(e))
		}
		res = append(res, elems)
	}
	return res, nil
}

func plyVertices(elems []plyElement) (coords, normals []model3d.Coord3D, err error) {
	coords = make([]model3d.Coord3D, len(elems))
	hasNormals := len(elems) > 0
	for i, e := range elems {
		var arr [3]float64
		for j, key := range []string{"x", "y", "z"} {
			arr[j], err = plyNumber(e[key])
			if err != nil {
				return nil, nil, errors.Wrapf(err, "vertex %d property %s", i, key)
			}
		}
		coords[i] = model3d.NewCoord3DArray(arr)
		for _, key := range []string{"nx", "ny", "nz"} {
			if _, ok := e[key]; !ok {
				hasNormals = false
			}
		}
	}
	if !hasNormals {
		return coords, nil, nil
	}
	normals = make([]model3d.Coord3D, len(elems))
	for i, e := range elems {
		var arr [3]float64
		for j, key := range []string{"nx", "ny", "nz"} {
			arr[j], err = plyNumber(e[key])
			if err != nil {
				return nil, nil, errors.Wrapf(err, "vertex %d property %s", i, key)
			}
		}
		normals[i] = model3d.NewCoord3DArray(arr)
	}
	return coords, normals, nil
}

func plyFaceIndices(face plyElement) ([]int, error) {
	list, ok := face["vertex_indices"]
	if !ok {
		list, ok = face["vertex_index"]
	}
	if !ok {
		return nil, errors.New("missing vertex_indices property")
	}
	items, ok := list.([]interface{})
	if !ok {
		return nil, errors.Errorf("unexpected vertex list type %T", list)
	}
	res := make([]int, len(items))
	for i, x := range items {
		f, err := plyNumber(x)
		if err != nil {
			return nil, err
		}
		res[i] = int(f)
	}
	return res, nil
}

func plyNumber(x interface{}) (float64, error) {
	switch x := x.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case nil:
		return 0, errors.New("missing value")
	default:
		return 0, errors.Errorf("unexpected value type %T", x)
	}
}
