package cube

import (
	"math"
	"testing"
)

func TestComputeZStats(t *testing.T) {
	// Plane 0 holds {1, 2, 3, 4}, plane 1 holds {NaN, 2, 4, 6}.
	const dimx, dimy, dimz = 2, 2, 2
	plane0 := []float64{1, 2, 3, 4}
	plane1 := []float64{math.NaN(), 2, 4, 6}
	data := makeCubeData(dimx, dimy, dimz, func(x, y, z int) float64 {
		if z == 0 {
			return plane0[x*dimy+y]
		}
		return plane1[x*dimy+y]
	})
	c, err := Open(buildFramed(t, data, dimx, dimy, dimz, nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	zs, err := c.ComputeZStats()
	if err != nil {
		t.Fatalf("ComputeZStats failed: %v", err)
	}

	const tol = 1e-12
	if math.Abs(zs.Mean[0]-2.5) > tol {
		t.Errorf("Mean[0] = %v, want 2.5", zs.Mean[0])
	}
	if zs.Median[0] != 2 {
		t.Errorf("Median[0] = %v, want 2", zs.Median[0])
	}
	if want := math.Sqrt(5.0 / 3.0); math.Abs(zs.Std[0]-want) > tol {
		t.Errorf("Std[0] = %v, want %v", zs.Std[0], want)
	}

	// NaN is dropped before the plane-1 statistics.
	if math.Abs(zs.Mean[1]-4) > tol {
		t.Errorf("Mean[1] = %v, want 4", zs.Mean[1])
	}
	if zs.Median[1] != 4 {
		t.Errorf("Median[1] = %v, want 4", zs.Median[1])
	}
	if math.Abs(zs.Std[1]-2) > tol {
		t.Errorf("Std[1] = %v, want 2", zs.Std[1])
	}
}

func TestComputeZStatsAllNaNPlane(t *testing.T) {
	const dimx, dimy, dimz = 2, 2, 2
	data := makeCubeData(dimx, dimy, dimz, func(x, y, z int) float64 {
		if z == 1 {
			return math.NaN()
		}
		return 1
	})
	c, err := Open(buildFramed(t, data, dimx, dimy, dimz, nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	zs, err := c.ComputeZStats()
	if err != nil {
		t.Fatalf("ComputeZStats failed: %v", err)
	}
	if zs.Mean[0] != 1 || zs.Std[0] != 0 {
		t.Errorf("plane 0 stats = (%v, %v), want (1, 0)", zs.Mean[0], zs.Std[0])
	}
	if !math.IsNaN(zs.Mean[1]) || !math.IsNaN(zs.Median[1]) || !math.IsNaN(zs.Std[1]) {
		t.Errorf("all-NaN plane stats = (%v, %v, %v), want NaNs",
			zs.Mean[1], zs.Median[1], zs.Std[1])
	}
}
