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
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: pcd_info [flags] <input.pcd>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath := args[0]

	log.Println("Loading point cloud...")
	cloud, err := meshpc.LoadCloud(inputPath)
	essentials.Must(err)

	stats := meshpc.Spacing[float64](cloud.Points)
	fmt.Println("Number of points:", cloud.Len())
	fmt.Println("Has normals:", cloud.HasNormals())
	fmt.Println("Bounds:", cloud.Min(), cloud.Max())
	fmt.Println("Minimum distance between points:", meshpc.MinDistance[float64](cloud.Points))
	fmt.Printf("Nearest-neighbor spacing: max=%f mean=%f stddev=%f\n", stats.Max, stats.Mean,
		stats.StdDev)
}
