// Command cubeinfo opens a spectral cube container, runs the structural
// validation gate and prints the cube's metadata. It can also export the
// deep image or individual planes as PNG files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"spectralcube/pkg/cube"
	"spectralcube/pkg/params"
	"spectralcube/pkg/visualization"
)

func main() {
	cubePath := flag.String("cube", "", "Path to the cube container")
	binning := flag.Int("bin", 0, "Open the cube binned by this factor (0 = unbinned)")
	workers := flag.Int("workers", 1, "Number of workers for tiled region reads")
	paramsPath := flag.String("params", "", "Optional YAML observation parameter file")
	deepOut := flag.String("deep", "", "Export the deep image as a PNG to this path")
	frameOut := flag.String("frame-out", "", "Export one plane as a PNG to this path")
	frameIdx := flag.Int("frame", 0, "Plane index to export with -frame-out")
	stats := flag.Bool("stats", false, "Compute and print per-plane z statistics")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	flag.Parse()

	if *cubePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	opts := []cube.Option{
		cube.WithLogger(logger),
		cube.WithWorkers(*workers),
	}
	if *binning > 1 {
		opts = append(opts, cube.WithBinning(*binning))
	}
	if !*quiet {
		opts = append(opts, cube.WithProgress(func(current, total int, label string) {
			fmt.Printf("\r%s: %d/%d", label, current, total)
			if current == total {
				fmt.Println()
			}
		}))
	}
	if *paramsPath != "" {
		obs, err := params.Load(*paramsPath)
		if err != nil {
			log.Fatalf("Failed to load observation parameters: %v", err)
		}
		opts = append(opts, cube.WithObservation(obs))
	}

	c, err := cube.Open(*cubePath, opts...)
	if err != nil {
		log.Fatalf("Failed to open cube: %v", err)
	}

	dimx, dimy, dimz := c.Dims()
	fmt.Println("================================")
	fmt.Printf("Cube: %s\n", c.Path())
	fmt.Printf("Shape: (%d, %d, %d)\n", dimx, dimy, dimz)
	fmt.Printf("Layout: %s\n", c.Layout())
	if c.Layout() == cube.LayoutTiled {
		fmt.Printf("Quadrants: %d\n", c.QuadNb())
	}
	if c.IsComplex() {
		fmt.Println("Element type: complex")
	} else {
		fmt.Println("Element type: real")
	}
	fmt.Printf("Mask available: %v\n", c.HasMask())
	if c.Binning() > 1 {
		fmt.Printf("Binning: %dx%d\n", c.Binning(), c.Binning())
	}
	if list := c.ImageList(); len(list) > 0 {
		fmt.Printf("Source images: %d\n", len(list))
		for _, name := range list {
			fmt.Printf("  %s\n", name)
		}
	}
	if obs := c.Observation(); obs != nil {
		fmt.Printf("Object: %s (filter %s)\n", obs.Object, obs.Filter)
	}

	if *stats {
		zs, err := c.ComputeZStats()
		if err != nil {
			log.Fatalf("Failed to compute z statistics: %v", err)
		}
		fmt.Println("\nPer-plane statistics:")
		for ik := 0; ik < dimz; ik++ {
			fmt.Printf("  z=%04d  mean=%.6g  median=%.6g  std=%.6g\n",
				ik, zs.Mean[ik], zs.Median[ik], zs.Std[ik])
		}
	}

	if *deepOut != "" {
		deep, err := c.DeepImage(false)
		if err != nil {
			log.Fatalf("Failed to compute deep image: %v", err)
		}
		viewer := visualization.NewViewer(c)
		img := visualization.RenderPlane(deep, dimx, dimy)
		if err := viewer.SaveImage(img, *deepOut); err != nil {
			log.Fatalf("Failed to save deep image: %v", err)
		}
		fmt.Printf("Deep image saved to: %s\n", *deepOut)
	}

	if *frameOut != "" {
		viewer := visualization.NewViewer(c)
		img, err := viewer.FrameImage(*frameIdx)
		if err != nil {
			log.Fatalf("Failed to render plane %d: %v", *frameIdx, err)
		}
		if err := viewer.SaveImage(img, *frameOut); err != nil {
			log.Fatalf("Failed to save plane image: %v", err)
		}
		fmt.Printf("Plane %d saved to: %s\n", *frameIdx, *frameOut)
	}
}
