// Package visualization renders cube planes and deep images to grayscale
// image files for quick inspection of a container.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"spectralcube/pkg/cube"
)

// Viewer renders 2-D views of a cube. It works against the virtual array
// interface, so both container-backed and in-memory cubes can be viewed
// without materializing more than one plane at a time.
type Viewer struct {
	cube cube.Array
}

// NewViewer creates a viewer over the given cube.
func NewViewer(c cube.Array) *Viewer {
	return &Viewer{cube: c}
}

// FrameImage renders the plane at depth z as a 16-bit grayscale image.
// Complex cubes are rendered from the real parts of their samples.
func (v *Viewer) FrameImage(z int) (image.Image, error) {
	dimx, dimy, _ := v.cube.Dims()

	blk, err := v.cube.Read(cube.Request{
		X: cube.All(), Y: cube.All(), Z: cube.At(z),
		Silent: true,
	})
	if err != nil {
		return nil, err
	}

	data := blk.Float
	if blk.IsComplex() {
		data = make([]float64, len(blk.Cplx))
		for i, c := range blk.Cplx {
			data[i] = real(c)
		}
	}
	return RenderPlane(data, dimx, dimy), nil
}

// RenderPlane maps a (width, height) plane, stored x-major with y varying
// fastest, onto a 16-bit grayscale image. Values are normalized between
// the finite minimum and maximum of the plane; NaN pixels render black.
func RenderPlane(data []float64, width, height int) image.Image {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, val := range data {
		if math.IsNaN(val) {
			continue
		}
		if val < lo {
			lo = val
		}
		if val > hi {
			hi = val
		}
	}
	scale := 0.0
	if hi > lo {
		scale = 65535 / (hi - lo)
	}

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			val := data[x*height+y]
			if math.IsNaN(val) {
				img.SetGray16(x, y, color.Gray16{Y: 0})
				continue
			}
			level := uint16(math.Max(0, math.Min(65535, (val-lo)*scale)))
			img.SetGray16(x, y, color.Gray16{Y: level})
		}
	}
	return img
}

// SaveImage saves a rendered image as a PNG file.
func (v *Viewer) SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveFrameSequence renders and saves every plane of the cube into
// outputDir, one PNG per depth index.
func (v *Viewer) SaveFrameSequence(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	_, _, dimz := v.cube.Dims()
	for z := 0; z < dimz; z++ {
		img, err := v.FrameImage(z)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("frame_%05d.png", z))
		if err := v.SaveImage(img, filename); err != nil {
			return err
		}
	}

	return nil
}
