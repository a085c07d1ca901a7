package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/mesh-pcd/meshpc"
)

func main() {
	var opts meshpc.RenderOptions
	var hideNormals bool
	flag.IntVar(&opts.GridSize, "grid-size", 3, "grid size (used for rows and columns)")
	flag.IntVar(&opts.ImageSize, "image-size", 300, "size of each image in the grid")
	flag.Float64Var(&opts.FPS, "fps", 10.0, "FPS for GIF outputs")
	flag.IntVar(&opts.Frames, "frames", 20, "total number of frames for GIF outputs")
	flag.Float64Var(&opts.PointRadius, "point-radius", 0,
		"radius of each point (0 picks one from the bounding box)")
	flag.Float64Var(&opts.NormalLength, "normal-length", 0,
		"length of drawn normals (0 picks one from the bounding box)")
	flag.BoolVar(&hideNormals, "hide-normals", false, "do not draw normals")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: render_pcd [flags] <input.pcd> <output.png>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	log.Println("Loading point cloud...")
	cloud, err := meshpc.LoadCloud(inputPath)
	essentials.Must(err)
	if hideNormals {
		cloud.Normals = nil
	}

	log.Println("Rendering...")
	essentials.Must(meshpc.RenderCloud(outputPath, cloud, opts))
}
