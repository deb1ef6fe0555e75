package cube

import "math"

// The deep image is the per-pixel mean of the cube across the z axis with
// NaNs treated as zero contributions. Its divisor is always dimz, never
// the finite-sample count — that is the historical rule of the producing
// pipeline and differs from the binning divisor on purpose.

// DeepImage returns the deep image of the cube, computing and caching it
// on first use. With recompute set, the cache is rebuilt. The returned
// slice is the cache itself and must not be modified by callers.
func (c *Cube) DeepImage(recompute bool) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deep != nil && !recompute {
		return c.deep, nil
	}
	deep, err := computeDeepImage(c, c.progress)
	if err != nil {
		return nil, err
	}
	c.deep = deep
	return c.deep, nil
}

// computeDeepImage accumulates the NaN-as-zero plane sum of any virtual
// array and divides by the depth extent. Complex cubes contribute their
// real parts; the deep image is always real-valued.
func computeDeepImage(a Array, progress ProgressFunc) ([]float64, error) {
	dimx, dimy, dimz := a.Dims()
	sum := make([]float64, dimx*dimy)
	for ik := 0; ik < dimz; ik++ {
		blk, err := a.Read(Request{X: All(), Y: All(), Z: At(ik), Silent: true})
		if err != nil {
			return nil, err
		}
		if blk.IsComplex() {
			for i, v := range blk.Cplx {
				if !math.IsNaN(real(v)) {
					sum[i] += real(v)
				}
			}
		} else {
			for i, v := range blk.Float {
				if !math.IsNaN(v) {
					sum[i] += v
				}
			}
		}
		if progress != nil {
			progress(ik+1, dimz, "creating deep image")
		}
	}
	for i := range sum {
		sum[i] /= float64(dimz)
	}
	return sum, nil
}
