package cube

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ZStats holds one statistic per plane along the z axis, NaN-aware: NaN
// samples are dropped before computing, and a plane with no finite sample
// yields NaN entries.
type ZStats struct {
	Mean   []float64
	Median []float64
	Std    []float64
}

// ComputeZStats derives the per-plane mean, median and standard deviation
// profile of the cube. For complex cubes the statistics are taken over the
// real parts. Planes are streamed one at a time, so the cube never has to
// fit in memory.
func (c *Cube) ComputeZStats() (*ZStats, error) {
	zs := &ZStats{
		Mean:   make([]float64, c.dimz),
		Median: make([]float64, c.dimz),
		Std:    make([]float64, c.dimz),
	}

	vals := make([]float64, 0, c.dimx*c.dimy)
	for ik := 0; ik < c.dimz; ik++ {
		blk, err := c.Read(Request{X: All(), Y: All(), Z: At(ik), Silent: true})
		if err != nil {
			return nil, err
		}

		vals = vals[:0]
		if blk.IsComplex() {
			for _, v := range blk.Cplx {
				if !math.IsNaN(real(v)) {
					vals = append(vals, real(v))
				}
			}
		} else {
			for _, v := range blk.Float {
				if !math.IsNaN(v) {
					vals = append(vals, v)
				}
			}
		}

		if len(vals) == 0 {
			zs.Mean[ik] = math.NaN()
			zs.Median[ik] = math.NaN()
			zs.Std[ik] = math.NaN()
			continue
		}
		sort.Float64s(vals)
		zs.Mean[ik] = stat.Mean(vals, nil)
		zs.Median[ik] = stat.Quantile(0.5, stat.Empirical, vals, nil)
		zs.Std[ik] = stat.StdDev(vals, nil)
	}
	return zs, nil
}
