package meshpc

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WritePLY encodes the cloud as an ascii PLY file with one vertex per
// point.
func WritePLY(w io.Writer, cloud *PointCloud) error {
	props := []string{"x", "y", "z"}
	if cloud.HasNormals() {
		props = append(props, "nx", "ny", "nz")
	}
	header := []string{
		"ply",
		"format ascii 1.0",
		fmt.Sprintf("element vertex %d", cloud.Len()),
	}
	for _, p := range props {
		header = append(header, "property double "+p)
	}
	header = append(header, "end_header")
	if _, err := io.WriteString(w, strings.Join(header, "\n")+"\n"); err != nil {
		return errors.Wrap(err, "write PLY")
	}

	values := make([]string, len(props))
	for i, p := range cloud.Points {
		for j, x := range p.Array() {
			values[j] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		if cloud.HasNormals() {
			for j, x := range cloud.Normals[i].Array() {
				values[j+3] = strconv.FormatFloat(x, 'g', -1, 64)
			}
		}
		if _, err := io.WriteString(w, strings.Join(values, " ")+"\n"); err != nil {
			return errors.Wrap(err, "write PLY")
		}
	}
	return nil
}

// SaveCloud writes the cloud to a .pcd or .ply file.
//
// The encoding only applies to PCD files; PLY files are always ascii.
func SaveCloud(path string, cloud *PointCloud, enc PCDEncoding) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcd":
		err = Save(path, cloud, func(w io.Writer, cloud *PointCloud) error {
			return WritePCD(w, cloud, enc)
		})
	case ".ply":
		err = Save(path, cloud, WritePLY)
	default:
		err = errors.Errorf("unsupported point cloud extension %q", filepath.Ext(path))
	}
	if err != nil {
		return errors.Wrapf(err, "save cloud %s", path)
	}
	return nil
}

// LoadCloud reads a .pcd or .ply point cloud file.
func LoadCloud(path string) (*PointCloud, error) {
	var res *PointCloud
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcd":
		res, err = Load(path, ReadPCD)
	case ".ply":
		res, err = Load(path, ReadPLYCloud)
	default:
		err = errors.Errorf("unsupported point cloud extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load cloud %s", path)
	}
	return res, nil
}
