package cube

import (
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"spectralcube/internal/container"
)

// Request describes one region read. It is immutable for the duration of
// the call: all read modes travel with the request instead of living on the
// cube, so concurrent reads on one cube never race on shared flags.
type Request struct {
	// X, Y, Z select the region along each axis, in logical (binned)
	// coordinates.
	X, Y, Z Index

	// Mask requests the boolean mask channel instead of the data. The
	// mask comes back as 0/1 values in Block.Float.
	Mask bool

	// Silent suppresses progress notifications for this read.
	Silent bool
}

// Get reads the region selected by the three axis indices.
func (c *Cube) Get(x, y, z Index) (*Block, error) {
	return c.Read(Request{X: x, Y: y, Z: z})
}

// GetData reads the region [xmin,xmax) x [ymin,ymax) x [zmin,zmax),
// optionally from the mask channel.
func (c *Cube) GetData(xmin, xmax, ymin, ymax, zmin, zmax int, mask bool) (*Block, error) {
	return c.Read(Request{
		X:    Range(xmin, xmax),
		Y:    Range(ymin, ymax),
		Z:    Range(zmin, zmax),
		Mask: mask,
	})
}

// Read performs one region read. The result shape is the region shape with
// size-1 axes squeezed away. A failure aborts the whole read; partial
// buffers are never returned.
func (c *Cube) Read(req Request) (*Block, error) {
	if req.Mask && !c.maskOK {
		return nil, fmt.Errorf("%w: %s", ErrMaskUnavailable, c.path)
	}

	reg, err := resolveRegion(req.X, req.Y, req.Z, c.dimx, c.dimy, c.dimz)
	if err != nil {
		return nil, err
	}

	// Reads always happen in raw stored coordinates; under binning the
	// logical x/y spans are scaled up first and the loaded block is
	// collapsed back down afterwards.
	rawX, rawY := reg.x, reg.y
	if c.binning > 1 {
		rawX = span{reg.x.min * c.binning, reg.x.max * c.binning}
		rawY = span{reg.y.min * c.binning, reg.y.max * c.binning}
	}

	r, err := container.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var blk *Block
	if c.layout == LayoutFramed {
		blk, err = c.readFramed(r, reg, rawX, rawY, req)
	} else {
		blk, err = c.readTiled(r, reg, rawX, rawY, req)
	}
	if err != nil {
		return nil, err
	}

	blk.Shape = squeezeShape(reg.x.len(), reg.y.len(), reg.z.len())
	return blk, nil
}

// readFramed loads one windowed plane per z index. The container supports
// windowed reads, so only the x/y window of each plane is fetched. Under
// binning each plane is collapsed as it arrives.
func (c *Cube) readFramed(r *container.Reader, reg region, rawX, rawY span, req Request) (*Block, error) {
	nx, ny, nz := reg.x.len(), reg.y.len(), reg.z.len()
	start := []int{rawX.min, rawY.min}
	count := []int{rawX.len(), rawY.len()}

	// Progress stays quiet for a single plane no matter the mode.
	report := !req.Silent && nz > 1

	if c.isComplex && !req.Mask {
		out := make([]complex128, nx*ny*nz)
		for ik := reg.z.min; ik < reg.z.max; ik++ {
			plane, err := r.ReadComplexRegion(frameDataPath(ik, false), start, count)
			if err != nil {
				return nil, err
			}
			if c.binning > 1 {
				plane = nanBinPlaneComplex(plane, rawX.len(), rawY.len(), c.binning)
			}
			k := ik - reg.z.min
			for ix := 0; ix < nx; ix++ {
				for iy := 0; iy < ny; iy++ {
					out[(ix*ny+iy)*nz+k] = plane[ix*ny+iy]
				}
			}
			if report {
				c.emitProgress(k+1, nz, "loading data")
			}
		}
		return &Block{Cplx: out}, nil
	}

	out := make([]float64, nx*ny*nz)
	for ik := reg.z.min; ik < reg.z.max; ik++ {
		var plane []float64
		if req.Mask {
			raw, err := r.ReadBytesRegion(frameDataPath(ik, true), start, count)
			if err != nil {
				return nil, err
			}
			plane = make([]float64, len(raw))
			for i, v := range raw {
				if v != 0 {
					plane[i] = 1
				}
			}
		} else {
			var err error
			plane, err = r.ReadFloatRegion(frameDataPath(ik, false), start, count)
			if err != nil {
				return nil, err
			}
		}
		if c.binning > 1 {
			plane = nanBinPlane(plane, rawX.len(), rawY.len(), c.binning)
		}
		k := ik - reg.z.min
		for ix := 0; ix < nx; ix++ {
			for iy := 0; iy < ny; iy++ {
				out[(ix*ny+iy)*nz+k] = plane[ix*ny+iy]
			}
		}
		if report {
			c.emitProgress(k+1, nz, "loading data")
		}
	}
	return &Block{Float: out}, nil
}

// readTiled visits every quadrant, skips the ones whose rectangle does not
// intersect the requested x/y window, and copies each overlapping
// sub-block into place. Quadrant reads are independent and write disjoint
// parts of the output, so they fan out across workers with no locking
// beyond the final join.
func (c *Cube) readTiled(r *container.Reader, reg region, rawX, rawY span, req Request) (*Block, error) {
	rawW, rawH, nz := rawX.len(), rawY.len(), reg.z.len()
	side := int(math.Round(math.Sqrt(float64(c.quadNb))))
	report := !req.Silent

	var rawF []float64
	var rawC []complex128
	if c.isComplex {
		rawC = make([]complex128, rawW*rawH*nz)
	} else {
		rawF = make([]float64, rawW*rawH*nz)
	}

	var visited atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(max(c.workers, 1))

	for i := 0; i < c.quadNb; i++ {
		i := i
		g.Go(func() error {
			defer func() {
				if report {
					c.emitProgress(int(visited.Add(1)), c.quadNb, "loading data")
				}
			}()

			qx0, qx1, qy0, qy1 := quadrantDims(i, c.rawx, c.rawy, side)
			ox0, ox1 := max(qx0, rawX.min), min(qx1, rawX.max)
			oy0, oy1 := max(qy0, rawY.min), min(qy1, rawY.max)
			if ox1 <= ox0 || oy1 <= oy0 {
				return nil
			}

			start := []int{ox0 - qx0, oy0 - qy0, reg.z.min}
			count := []int{ox1 - ox0, oy1 - oy0, nz}

			if c.isComplex {
				sub, err := r.ReadComplexRegion(quadDataPath(i), start, count)
				if err != nil {
					return err
				}
				copyTile(rawC, sub, ox0-rawX.min, oy0-rawY.min, rawH, nz, count[0], count[1])
				return nil
			}
			sub, err := r.ReadFloatRegion(quadDataPath(i), start, count)
			if err != nil {
				return err
			}
			copyTile(rawF, sub, ox0-rawX.min, oy0-rawY.min, rawH, nz, count[0], count[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if c.binning > 1 {
		if c.isComplex {
			return &Block{Cplx: nanBinBlockComplex(rawC, rawW, rawH, nz, c.binning)}, nil
		}
		return &Block{Float: nanBinBlock(rawF, rawW, rawH, nz, c.binning)}, nil
	}
	if c.isComplex {
		return &Block{Cplx: rawC}, nil
	}
	return &Block{Float: rawF}, nil
}

// copyTile places a tile sub-block of shape (ow, oh, nz) into the shared
// output at offset (dx, dy). dstH is the output y extent.
func copyTile[T float64 | complex128](dst, src []T, dx, dy, dstH, nz, ow, oh int) {
	for ix := 0; ix < ow; ix++ {
		for iy := 0; iy < oh; iy++ {
			srcOff := (ix*oh + iy) * nz
			dstOff := ((dx+ix)*dstH + (dy + iy)) * nz
			copy(dst[dstOff:dstOff+nz], src[srcOff:srcOff+nz])
		}
	}
}
