package meshpc

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestSaveLoadCloud(t *testing.T) {
	dir := t.TempDir()
	cloud := &PointCloud{
		Points:  []model3d.Coord3D{model3d.XYZ(1, 2, 3), model3d.XYZ(0.25, -0.5, 8)},
		Normals: []model3d.Coord3D{model3d.Z(-1), model3d.X(1)},
	}
	for _, name := range []string{"ascii.pcd", "binary.pcd", "cloud.ply"} {
		enc := PCDAscii
		if name == "binary.pcd" {
			enc = PCDBinary
		}
		path := filepath.Join(dir, name)
		if err := SaveCloud(path, cloud, enc); err != nil {
			t.Fatal(err)
		}
		result, err := LoadCloud(path)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(result, cloud) {
			t.Errorf("%s: expected %v but got %v", name, cloud, result)
		}
	}

	if err := SaveCloud(filepath.Join(dir, "cloud.xyz"), cloud, PCDAscii); err == nil {
		t.Error("expected error for unknown extension")
	}
	if _, err := LoadCloud(filepath.Join(dir, "missing.pcd")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMeshSTL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.stl")
	if err := testCubeMesh().Model3D().SaveGroupedSTL(path); err != nil {
		t.Fatal(err)
	}
	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.NumTriangles() != 12 {
		t.Errorf("expected 12 triangles but got %d", mesh.NumTriangles())
	}
	if mesh.HasVertexNormals() {
		t.Error("STL meshes should not have vertex normals")
	}
}

func TestLoadMeshErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(unknown, []byte("v 0 0 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMesh(unknown); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := LoadMesh(filepath.Join(dir, "missing.stl")); err == nil {
		t.Error("expected error for missing file")
	}
	empty := filepath.Join(dir, "empty.ply")
	data := "ply\nformat ascii 1.0\nelement vertex 0\nproperty float x\n" +
		"property float y\nproperty float z\nelement face 0\n" +
		"property list uchar int vertex_indices\nend_header\n"
	if err := os.WriteFile(empty, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMesh(empty); err == nil {
		t.Error("expected error for mesh without triangles")
	}
}

func TestResolveMeshPath(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "cube")

	if _, err := ResolveMeshPath(base); err == nil {
		t.Error("expected error when no mesh exists")
	}

	for _, ext := range []string{".off", ".stl"} {
		if err := os.WriteFile(base+ext, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if path, err := ResolveMeshPath(base); err != nil {
		t.Fatal(err)
	} else if path != base+".stl" {
		t.Errorf("expected %s but got %s", base+".stl", path)
	}

	explicit := filepath.Join(dir, "other.PLY")
	if path, err := ResolveMeshPath(explicit); err != nil || path != explicit {
		t.Errorf("explicit path should be kept, got %s %v", path, err)
	}
}
