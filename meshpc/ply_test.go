package meshpc

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

const testPLYMesh = `ply
format ascii 1.0
element vertex 5
property float x
property float y
property float z
property float nx
property float ny
property float nz
element face 2
property list uchar int vertex_indices
end_header
0 0 0 0 0 2
1 0 0 0 0 2
1 1 0 0 0 2
0 1 0 0 0 2
0.5 0.5 1 0 1 0
4 0 1 2 3
3 0 1 4
`

func TestReadPLYMesh(t *testing.T) {
	mesh, err := ReadPLYMesh(strings.NewReader(testPLYMesh))
	if err != nil {
		t.Fatal(err)
	}
	if n := mesh.NumTriangles(); n != 3 {
		t.Fatalf("expected 3 triangles but got %d", n)
	}
	if math.Abs(mesh.Area()-(1+math.Sqrt(1.25)/2)) > 1e-5 {
		t.Errorf("unexpected area %f", mesh.Area())
	}
	if !mesh.HasVertexNormals() {
		t.Fatal("expected vertex normals")
	}
	if n := mesh.VertexNormals[model3d.XYZ(1, 1, 0)]; n != model3d.Z(1) {
		t.Errorf("expected normalized normal but got %v", n)
	}
	if n := mesh.VertexNormals[model3d.XYZ(0.5, 0.5, 1)]; n != model3d.Y(1) {
		t.Errorf("unexpected normal %v", n)
	}
}

func TestReadPLYMeshWithoutNormals(t *testing.T) {
	data := `ply
format ascii 1.0
element vertex 3
property double x
property double y
property double z
element face 1
property list uchar uint vertex_index
end_header
0 0 0
2 0 0
0 2 0
3 0 1 2
`
	mesh, err := ReadMesh(strings.NewReader(data), ".ply")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.HasVertexNormals() {
		t.Error("mesh should not have vertex normals")
	}
	if mesh.NumTriangles() != 1 || mesh.Area() != 2 {
		t.Errorf("unexpected mesh: %d triangles, area %f", mesh.NumTriangles(), mesh.Area())
	}
}

func TestReadPLYMeshBadIndex(t *testing.T) {
	data := strings.Replace(testPLYMesh, "3 0 1 4", "3 0 1 9", 1)
	if _, err := ReadPLYMesh(strings.NewReader(data)); err == nil {
		t.Error("expected error for out-of-range vertex index")
	}
}

func TestReadWritePLYCloud(t *testing.T) {
	clouds := []*PointCloud{
		{
			Points:  []model3d.Coord3D{model3d.XYZ(0.1, 0.2, 0.3), model3d.XYZ(-1e3, 2.5, 7)},
			Normals: []model3d.Coord3D{model3d.X(1), model3d.XYZ(0.6, 0, 0.8)},
		},
		{
			Points: []model3d.Coord3D{model3d.XYZ(1, 2, 3)},
		},
	}
	for i, cloud := range clouds {
		var b bytes.Buffer
		if err := WritePLY(&b, cloud); err != nil {
			t.Fatal(err)
		}
		result, err := ReadPLYCloud(&b)
		if err != nil {
			t.Fatalf("cloud %d: %s", i, err)
		}
		if !reflect.DeepEqual(result, cloud) {
			t.Errorf("cloud %d: expected %v but got %v", i, cloud, result)
		}
	}
}
