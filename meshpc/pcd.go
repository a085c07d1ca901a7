package meshpc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// PCDEncoding is the DATA section format of a PCD file.
type PCDEncoding int

const (
	PCDAscii PCDEncoding = iota
	PCDBinary
	PCDCompressed
)

func (p PCDEncoding) String() string {
	switch p {
	case PCDAscii:
		return "ascii"
	case PCDBinary:
		return "binary"
	case PCDCompressed:
		return "binary_compressed"
	default:
		return fmt.Sprintf("PCDEncoding(%d)", int(p))
	}
}

var pcdNormalFields = [3]string{"normal_x", "normal_y", "normal_z"}

// WritePCD encodes the cloud as a version 0.7 PCD file with 32-bit float
// fields.
//
// Normals, if present, are written as normal_x, normal_y and normal_z.
func WritePCD(w io.Writer, cloud *PointCloud, enc PCDEncoding) error {
	if enc != PCDAscii && enc != PCDBinary {
		return errors.Errorf("write pcd: unsupported encoding %s", enc)
	}
	fields := []string{"x", "y", "z"}
	if cloud.HasNormals() {
		fields = append(fields, pcdNormalFields[:]...)
	}
	sizes := strings.TrimSpace(strings.Repeat("4 ", len(fields)))
	types := strings.TrimSpace(strings.Repeat("F ", len(fields)))
	counts := strings.TrimSpace(strings.Repeat("1 ", len(fields)))
	_, err := fmt.Fprintf(
		w,
		"# .PCD v0.7 - Point Cloud Data file format\n"+
			"VERSION 0.7\n"+
			"FIELDS %s\n"+
			"SIZE %s\n"+
			"TYPE %s\n"+
			"COUNT %s\n"+
			"WIDTH %d\n"+
			"HEIGHT 1\n"+
			"VIEWPOINT 0 0 0 1 0 0 0\n"+
			"POINTS %d\n"+
			"DATA %s\n",
		strings.Join(fields, " "), sizes, types, counts, cloud.Len(), cloud.Len(), enc,
	)
	if err != nil {
		return errors.Wrap(err, "write pcd")
	}

	values := make([]float32, len(fields))
	buf := make([]byte, 4*len(fields))
	for i, p := range cloud.Points {
		values[0], values[1], values[2] = float32(p.X), float32(p.Y), float32(p.Z)
		if cloud.HasNormals() {
			n := cloud.Normals[i]
			values[3], values[4], values[5] = float32(n.X), float32(n.Y), float32(n.Z)
		}
		if enc == PCDBinary {
			for j, v := range values {
				binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(v))
			}
			_, err = w.Write(buf)
		} else {
			parts := make([]string, len(values))
			for j, v := range values {
				parts[j] = strconv.FormatFloat(float64(v), 'g', -1, 32)
			}
			_, err = fmt.Fprintln(w, strings.Join(parts, " "))
		}
		if err != nil {
			return errors.Wrap(err, "write pcd")
		}
	}
	return nil
}

type pcdHeader struct {
	fields []string
	sizes  []int
	types  []string
	counts []int
	width  int
	height int
	points int
	data   PCDEncoding
}

// rowSize is the number of values in one point record.
func (p *pcdHeader) rowSize() int {
	var n int
	for _, c := range p.counts {
		n += c
	}
	return n
}

// offsets gets the value index of each field in a point record.
func (p *pcdHeader) offsets() map[string]int {
	res := map[string]int{}
	var idx int
	for i, f := range p.fields {
		res[f] = idx
		idx += p.counts[i]
	}
	return res
}

// ReadPCD decodes an ascii or binary PCD file.
//
// Only the x, y, z and normal fields are kept; other fields are skipped.
func ReadPCD(r io.Reader) (*PointCloud, error) {
	in := bufio.NewReader(r)
	header, err := readPCDHeader(in)
	if err != nil {
		return nil, errors.Wrap(err, "read pcd")
	}

	offsets := header.offsets()
	for _, f := range []string{"x", "y", "z"} {
		if _, ok := offsets[f]; !ok {
			return nil, errors.Errorf("read pcd: missing field %s", f)
		}
	}
	hasNormals := true
	for _, f := range pcdNormalFields {
		if _, ok := offsets[f]; !ok {
			hasNormals = false
		}
	}

	var rows [][]float64
	switch header.data {
	case PCDAscii:
		rows, err = readPCDAscii(in, header)
	case PCDBinary:
		rows, err = readPCDBinary(in, header)
	default:
		err = errors.Errorf("unsupported data encoding %s", header.data)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read pcd")
	}

	res := &PointCloud{Points: make([]model3d.Coord3D, len(rows))}
	if hasNormals {
		res.Normals = make([]model3d.Coord3D, len(rows))
	}
	for i, row := range rows {
		res.Points[i] = model3d.XYZ(row[offsets["x"]], row[offsets["y"]], row[offsets["z"]])
		if hasNormals {
			res.Normals[i] = model3d.XYZ(
				row[offsets["normal_x"]],
				row[offsets["normal_y"]],
				row[offsets["normal_z"]],
			)
		}
	}
	return res, nil
}

func readPCDHeader(in *bufio.Reader) (*pcdHeader, error) {
	header := &pcdHeader{height: 1}
	for {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "header")
		}
		line, _, _ = strings.Cut(line, "#")
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		name, values := tokens[0], tokens[1:]
		switch name {
		case "VERSION", "VIEWPOINT":
		case "FIELDS":
			header.fields = values
		case "SIZE":
			header.sizes, err = parsePCDInts(values)
		case "TYPE":
			header.types = values
		case "COUNT":
			header.counts, err = parsePCDInts(values)
		case "WIDTH", "HEIGHT", "POINTS":
			var n []int
			n, err = parsePCDInts(values)
			if err == nil && len(n) != 1 {
				err = errors.Errorf("expected one value for %s", name)
			}
			if err == nil {
				switch name {
				case "WIDTH":
					header.width = n[0]
				case "HEIGHT":
					header.height = n[0]
				default:
					header.points = n[0]
				}
			}
		case "DATA":
			if len(values) != 1 {
				return nil, errors.New("header: malformed DATA line")
			}
			switch values[0] {
			case "ascii":
				header.data = PCDAscii
			case "binary":
				header.data = PCDBinary
			case "binary_compressed":
				header.data = PCDCompressed
			default:
				return nil, errors.Errorf("header: unknown DATA %q", values[0])
			}
			return header, header.validate()
		default:
			return nil, errors.Errorf("header: unknown line %q", strings.TrimSpace(line))
		}
		if err != nil {
			return nil, errors.Wrapf(err, "header: %s", name)
		}
	}
}

func (p *pcdHeader) validate() error {
	n := len(p.fields)
	if n == 0 {
		return errors.New("header: no fields")
	}
	if p.counts == nil {
		p.counts = make([]int, n)
		for i := range p.counts {
			p.counts[i] = 1
		}
	}
	if len(p.sizes) != n || len(p.types) != n || len(p.counts) != n {
		return errors.New("header: FIELDS, SIZE, TYPE and COUNT lengths differ")
	}
	for i, c := range p.counts {
		if c < 1 {
			return errors.Errorf("header: field %s has COUNT %d", p.fields[i], c)
		}
	}
	if p.height != 0 && p.width > math.MaxInt/p.height {
		return errors.Errorf("header: WIDTH %d times HEIGHT %d overflows", p.width, p.height)
	}
	if p.points == 0 {
		p.points = p.width * p.height
	}
	if p.points != p.width*p.height {
		return errors.Errorf("header: POINTS %d does not match WIDTH*HEIGHT %d", p.points,
			p.width*p.height)
	}
	for i, t := range p.types {
		switch t {
		case "F":
			if p.sizes[i] != 4 && p.sizes[i] != 8 {
				return errors.Errorf("header: unsupported float size %d", p.sizes[i])
			}
		case "I", "U":
			if s := p.sizes[i]; s != 1 && s != 2 && s != 4 && s != 8 {
				return errors.Errorf("header: unsupported integer size %d", s)
			}
		default:
			return errors.Errorf("header: unknown TYPE %q", t)
		}
	}
	return nil
}

func parsePCDInts(values []string) ([]int, error) {
	res := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errors.Errorf("negative value %d", n)
		}
		res[i] = n
	}
	return res, nil
}

func readPCDAscii(in *bufio.Reader, header *pcdHeader) ([][]float64, error) {
	rowSize := header.rowSize()
	var rows [][]float64
	for len(rows) < header.points {
		line, err := in.ReadString('\n')
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			if err != nil {
				return nil, errors.Errorf("expected %d points but got %d", header.points, len(rows))
			}
			continue
		}
		if len(tokens) != rowSize {
			return nil, errors.Errorf("point %d: expected %d values but got %d", len(rows), rowSize,
				len(tokens))
		}
		row := make([]float64, rowSize)
		for i, token := range tokens {
			row[i], err = strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "point %d", len(rows))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readPCDBinary(in *bufio.Reader, header *pcdHeader) ([][]float64, error) {
	var recordSize int
	for i, s := range header.sizes {
		recordSize += s * header.counts[i]
	}
	buf := make([]byte, recordSize)
	var rows [][]float64
	for i := 0; i < header.points; i++ {
		if _, err := io.ReadFull(in, buf); err != nil {
			return nil, errors.Wrapf(err, "point %d", i)
		}
		row := make([]float64, 0, header.rowSize())
		data := buf
		for j, t := range header.types {
			size := header.sizes[j]
			for k := 0; k < header.counts[j]; k++ {
				row = append(row, decodePCDValue(data[:size], t))
				data = data[size:]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodePCDValue(data []byte, typ string) float64 {
	switch typ {
	case "F":
		if len(data) == 8 {
			return math.Float64frombits(binary.LittleEndian.Uint64(data))
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
	case "I":
		switch len(data) {
		case 1:
			return float64(int8(data[0]))
		case 2:
			return float64(int16(binary.LittleEndian.Uint16(data)))
		case 4:
			return float64(int32(binary.LittleEndian.Uint32(data)))
		default:
			return float64(int64(binary.LittleEndian.Uint64(data)))
		}
	default:
		switch len(data) {
		case 1:
			return float64(data[0])
		case 2:
			return float64(binary.LittleEndian.Uint16(data))
		case 4:
			return float64(binary.LittleEndian.Uint32(data))
		default:
			return float64(binary.LittleEndian.Uint64(data))
		}
	}
}
