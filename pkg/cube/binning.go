package cube

import "math"

// Spatial binning collapses each b x b block of stored pixels into one
// logical pixel holding the NaN-aware block mean: NaN pixels contribute
// nothing to the sum and are excluded from the divisor, and a block with
// no finite pixel at all stays NaN. Note that the divisor here is the
// finite-contributor count, unlike the deep image whose divisor is always
// dimz; the two rules are kept deliberately distinct.

// nanBinPlane collapses a (w, h) plane by the factor b into a
// (w/b, h/b) plane. w and h must be multiples of b.
func nanBinPlane(p []float64, w, h, b int) []float64 {
	nx, ny := w/b, h/b
	out := make([]float64, nx*ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			sum, n := 0.0, 0
			for dx := 0; dx < b; dx++ {
				for dy := 0; dy < b; dy++ {
					v := p[(ix*b+dx)*h+(iy*b+dy)]
					if !math.IsNaN(v) {
						sum += v
						n++
					}
				}
			}
			if n == 0 {
				out[ix*ny+iy] = math.NaN()
			} else {
				out[ix*ny+iy] = sum / float64(n)
			}
		}
	}
	return out
}

// nanBinPlaneComplex is nanBinPlane for complex planes. A sample counts as
// NaN when either component is NaN.
func nanBinPlaneComplex(p []complex128, w, h, b int) []complex128 {
	nx, ny := w/b, h/b
	out := make([]complex128, nx*ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			sum, n := complex(0, 0), 0
			for dx := 0; dx < b; dx++ {
				for dy := 0; dy < b; dy++ {
					v := p[(ix*b+dx)*h+(iy*b+dy)]
					if !isNaNC(v) {
						sum += v
						n++
					}
				}
			}
			if n == 0 {
				out[ix*ny+iy] = complex(math.NaN(), math.NaN())
			} else {
				out[ix*ny+iy] = sum / complex(float64(n), 0)
			}
		}
	}
	return out
}

// nanBinBlock collapses a (w, h, nz) block plane by plane along z.
func nanBinBlock(raw []float64, w, h, nz, b int) []float64 {
	nx, ny := w/b, h/b
	out := make([]float64, nx*ny*nz)
	plane := make([]float64, w*h)
	for k := 0; k < nz; k++ {
		for ix := 0; ix < w; ix++ {
			for iy := 0; iy < h; iy++ {
				plane[ix*h+iy] = raw[(ix*h+iy)*nz+k]
			}
		}
		binned := nanBinPlane(plane, w, h, b)
		for ix := 0; ix < nx; ix++ {
			for iy := 0; iy < ny; iy++ {
				out[(ix*ny+iy)*nz+k] = binned[ix*ny+iy]
			}
		}
	}
	return out
}

// nanBinBlockComplex is nanBinBlock for complex blocks.
func nanBinBlockComplex(raw []complex128, w, h, nz, b int) []complex128 {
	nx, ny := w/b, h/b
	out := make([]complex128, nx*ny*nz)
	plane := make([]complex128, w*h)
	for k := 0; k < nz; k++ {
		for ix := 0; ix < w; ix++ {
			for iy := 0; iy < h; iy++ {
				plane[ix*h+iy] = raw[(ix*h+iy)*nz+k]
			}
		}
		binned := nanBinPlaneComplex(plane, w, h, b)
		for ix := 0; ix < nx; ix++ {
			for iy := 0; iy < ny; iy++ {
				out[(ix*ny+iy)*nz+k] = binned[ix*ny+iy]
			}
		}
	}
	return out
}
