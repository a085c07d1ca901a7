package meshpc

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestNormalStick(t *testing.T) {
	p := model3d.XYZ(1, 2, 3)
	for _, n := range []model3d.Coord3D{model3d.X(1), model3d.Y(-2), model3d.XYZ(1, 1, 1)} {
		tris := normalStick(p, n, 0.1, 2)
		if len(tris) != 8 {
			t.Fatalf("expected 8 triangles but got %d", len(tris))
		}
		axis := n.Normalize()
		mid := p.Add(axis)
		for i, tri := range tris {
			center := tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
			outward := center.Sub(mid)
			if i >= 2 {
				// Side faces point away from the stick's axis.
				outward = outward.Sub(axis.Scale(outward.Dot(axis)))
			}
			if tri.Normal().Dot(outward) <= 0 {
				t.Errorf("normal %v: triangle %d faces inward", n, i)
			}
		}
		var maxDist float64
		for _, tri := range tris {
			for _, c := range tri {
				maxDist = math.Max(maxDist, c.Dist(p))
			}
		}
		if math.Abs(maxDist-math.Sqrt(4+0.01)) > 1e-8 {
			t.Errorf("unexpected stick extent %f", maxDist)
		}
	}
	if tris := normalStick(p, model3d.Origin, 0.1, 1); tris != nil {
		t.Error("zero normal should produce no stick")
	}
}

func TestCloudMesh(t *testing.T) {
	cloud := &PointCloud{
		Points:  []model3d.Coord3D{model3d.Origin, model3d.X(1)},
		Normals: []model3d.Coord3D{model3d.Z(1), model3d.Z(-1)},
	}
	withNormals := CloudMesh(cloud, 0.05, 0.2)
	withoutNormals := CloudMesh(&PointCloud{Points: cloud.Points}, 0.05, 0.2)
	if diff := withNormals.NumTriangles() - withoutNormals.NumTriangles(); diff != 16 {
		t.Errorf("expected 16 extra triangles for normals but got %d", diff)
	}
	if m := withNormals.Max(); math.Abs(m.Z-0.2) > 1e-8 {
		t.Errorf("unexpected max %v", m)
	}
}

func TestRenderCloud(t *testing.T) {
	if err := RenderCloud("unused.png", &PointCloud{}, RenderOptions{}); err == nil {
		t.Error("expected error for empty cloud")
	}

	cloud := &PointCloud{
		Points:  []model3d.Coord3D{model3d.Origin, model3d.X(1), model3d.Y(1)},
		Normals: []model3d.Coord3D{model3d.Z(1), model3d.Z(1), model3d.Z(1)},
	}
	path := filepath.Join(t.TempDir(), "cloud.png")
	if err := RenderCloud(path, cloud, RenderOptions{ImageSize: 32, GridSize: 1}); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil {
		t.Fatal(err)
	} else if info.Size() == 0 {
		t.Error("rendering is empty")
	}
}
