package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/mesh-pcd/meshpc"
)

const (
	defaultName   = "cube"
	defaultSuffix = "_pcd"
	defaultFormat = "ply"
)

func main() {
	var name string
	var numPoints int
	var initFactor int
	var suffix string
	var format string
	var binary bool
	var seed int64
	var renderPath string
	var spacing bool
	flag.StringVar(&name, "name", defaultName, "mesh resource name, with or without extension")
	flag.IntVar(&numPoints, "num-points", 500, "number of points to sample")
	flag.IntVar(&initFactor, "init-factor", meshpc.DefaultInitFactor,
		"ratio of initial uniform candidates to final Poisson disk samples")
	flag.StringVar(&suffix, "suffix", defaultSuffix,
		"suffix appended to the name for the output file")
	flag.StringVar(&format, "format", defaultFormat, "output format (ply or pcd)")
	flag.BoolVar(&binary, "binary", false, "write binary instead of ascii PCD data")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 uses the current time)")
	flag.StringVar(&renderPath, "render", "", "optional path for a rendering (.png or .gif)")
	flag.BoolVar(&spacing, "spacing", false, "report nearest-neighbor spacing statistics")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mesh_to_pcd [flags] [input mesh]")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 {
		flag.Usage()
		os.Exit(1)
	}
	if len(args) == 1 {
		name = args[0]
	}
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format != "pcd" && format != "ply" {
		essentials.Die("unsupported output format:", format)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	meshPath, err := meshpc.ResolveMeshPath(name)
	essentials.Must(err)
	outPath := outputPath(name, suffix, format)

	log.Println("Loading mesh...")
	mesh, err := meshpc.LoadMesh(meshPath)
	essentials.Must(err)
	if removed := mesh.RemoveDegenerate(); removed > 0 {
		log.Printf(" - removed %d invalid triangles", removed)
	}
	if !mesh.HasVertexNormals() {
		log.Println("Computing vertex normals...")
		mesh.ComputeVertexNormals()
	}

	log.Println("Sampling points...")
	sampler := &meshpc.PoissonDiskSampler{InitFactor: initFactor, Seed: seed}
	cloud, err := sampler.Sample(mesh, numPoints)
	essentials.Must(err)
	log.Printf(" - sampled %d points", cloud.Len())

	minDist := meshpc.MinDistance[float64](cloud.Points)
	fmt.Println("Minimum distance between points:", minDist)
	if spacing {
		stats := meshpc.Spacing[float64](cloud.Points)
		log.Printf("Spacing: min=%f max=%f mean=%f stddev=%f", stats.Min, stats.Max, stats.Mean,
			stats.StdDev)
	}

	if renderPath != "" {
		log.Println("Rendering...")
		essentials.Must(meshpc.RenderCloud(renderPath, cloud, meshpc.RenderOptions{}))
	}

	log.Println("Writing output...")
	enc := meshpc.PCDAscii
	if binary {
		enc = meshpc.PCDBinary
	}
	essentials.Must(meshpc.SaveCloud(outPath, cloud, enc))
	log.Printf(" - wrote %s", outPath)
}

// outputPath derives the cloud path from the mesh name, dropping any mesh
// extension so "cube.ply" and "cube" both give "cube_pcd.ply".
func outputPath(name, suffix, format string) string {
	return trimMeshExt(name) + suffix + "." + format
}

func trimMeshExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range meshpc.MeshExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
