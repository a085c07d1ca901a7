package meshpc

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"go.uber.org/multierr"
)

// MeshExtensions lists the mesh file extensions which ResolveMeshPath tries,
// in order.
var MeshExtensions = []string{".ply", ".stl", ".off"}

// Load opens a file and decodes it with f.
func Load[T any](path string, f func(r io.Reader) (T, error)) (T, error) {
	file, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer file.Close()
	return f(bufio.NewReader(file))
}

// Save creates a file and encodes obj into it with f.
func Save[T any](path string, obj T, f func(w io.Writer, obj T) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()
	w := bufio.NewWriter(file)
	if err := f(w, obj); err != nil {
		return err
	}
	return w.Flush()
}

// ResolveMeshPath turns a resource name into a mesh path.
//
// If name already has a known mesh extension, it is returned unchanged.
// Otherwise, the first existing file name+ext for ext in MeshExtensions is
// returned.
func ResolveMeshPath(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, x := range MeshExtensions {
		if ext == x {
			return name, nil
		}
	}
	for _, x := range MeshExtensions {
		path := name + x
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Errorf("resolve mesh: no mesh file found for %q (tried %s)", name,
		strings.Join(MeshExtensions, ", "))
}

// LoadMesh reads a mesh file, choosing the decoder from the extension.
func LoadMesh(path string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mesh, err := Load(path, func(r io.Reader) (*Mesh, error) {
		return ReadMesh(r, ext)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load mesh %s", path)
	}
	return mesh, nil
}

// ReadMesh decodes a mesh in the given format, which is a file extension
// like ".stl" or "ply".
func ReadMesh(r io.Reader, format string) (*Mesh, error) {
	var res *Mesh
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "stl":
		tris, err := model3d.ReadSTL(r)
		if err != nil {
			return nil, errors.Wrap(err, "read mesh")
		}
		res = NewMesh(tris)
	case "off":
		tris, err := model3d.ReadOFF(r)
		if err != nil {
			return nil, errors.Wrap(err, "read mesh")
		}
		res = NewMesh(tris)
	case "ply":
		var err error
		res, err = ReadPLYMesh(r)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("read mesh: unsupported format %q", format)
	}
	if res.NumTriangles() == 0 {
		return nil, errors.New("read mesh: mesh has no triangles")
	}
	return res, nil
}
