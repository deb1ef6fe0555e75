package cube

import (
	"math"
	"testing"
)

// sameFloat treats two NaNs as equal.
func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func TestBinnedRead(t *testing.T) {
	// 4x4 plane holding 4x+y, with one NaN hole at (1, 1). Binned by 2 the
	// top-left block averages its three finite pixels only.
	const dimx, dimy, dimz = 4, 4, 1
	data := makeCubeData(dimx, dimy, dimz, func(x, y, z int) float64 {
		if x == 1 && y == 1 {
			return math.NaN()
		}
		return float64(4*x + y)
	})
	c, err := Open(buildFramed(t, data, dimx, dimy, dimz, nil), WithBinning(2))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	gx, gy, _ := c.Dims()
	if gx != 2 || gy != 2 {
		t.Fatalf("binned dims = (%d, %d), want (2, 2)", gx, gy)
	}

	blk, err := c.Get(All(), All(), All())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := []float64{
		(0 + 1 + 4) / 3.0,      // NaN at (1,1) excluded from the divisor
		(2 + 3 + 6 + 7) / 4.0,
		(8 + 9 + 12 + 13) / 4.0,
		(10 + 11 + 14 + 15) / 4.0,
	}
	for i, w := range want {
		if !sameFloat(blk.Float[i], w) {
			t.Errorf("binned value at %d = %v, want %v", i, blk.Float[i], w)
		}
	}
}

func TestBinnedAllNaNBlock(t *testing.T) {
	const dimx, dimy, dimz = 4, 4, 1
	data := makeCubeData(dimx, dimy, dimz, func(x, y, z int) float64 {
		if x < 2 && y < 2 {
			return math.NaN()
		}
		return 1
	})
	c, err := Open(buildFramed(t, data, dimx, dimy, dimz, nil), WithBinning(2))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	blk, err := c.Get(All(), All(), All())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !math.IsNaN(blk.Float[0]) {
		t.Errorf("all-NaN block = %v, want NaN", blk.Float[0])
	}
	for _, i := range []int{1, 2, 3} {
		if blk.Float[i] != 1 {
			t.Errorf("binned value at %d = %v, want 1", i, blk.Float[i])
		}
	}
}

func TestBinnedWindowUsesLogicalCoordinates(t *testing.T) {
	const dimx, dimy, dimz = 8, 8, 2
	f := func(x, y, z int) float64 { return float64(100*x + 10*y + z) }
	data := makeCubeData(dimx, dimy, dimz, f)
	c, err := Open(buildFramed(t, data, dimx, dimy, dimz, nil), WithBinning(2))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Logical pixel (1, 2) covers stored pixels [2,4)x[4,6).
	blk, err := c.Get(At(1), At(2), At(0))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := (f(2, 4, 0) + f(2, 5, 0) + f(3, 4, 0) + f(3, 5, 0)) / 4.0
	if blk.Float[0] != want {
		t.Errorf("binned window value = %v, want %v", blk.Float[0], want)
	}
}

func TestBinnedTiledMatchesFramed(t *testing.T) {
	const dimx, dimy, dimz = 8, 8, 2
	data := makeCubeData(dimx, dimy, dimz, func(x, y, z int) float64 {
		if (x+y+z)%7 == 0 {
			return math.NaN()
		}
		return float64(x*y) + float64(z)/2
	})

	framed, err := Open(buildFramed(t, data, dimx, dimy, dimz, nil), WithBinning(2))
	if err != nil {
		t.Fatalf("Open framed failed: %v", err)
	}
	tiled, err := Open(buildQuad(t, data, dimx, dimy, dimz, 4), WithBinning(2))
	if err != nil {
		t.Fatalf("Open tiled failed: %v", err)
	}

	want, err := framed.Get(All(), All(), All())
	if err != nil {
		t.Fatalf("framed read failed: %v", err)
	}
	got, err := tiled.Get(All(), All(), All())
	if err != nil {
		t.Fatalf("tiled read failed: %v", err)
	}
	if len(got.Float) != len(want.Float) {
		t.Fatalf("length %d, want %d", len(got.Float), len(want.Float))
	}
	for i := range want.Float {
		if !sameFloat(got.Float[i], want.Float[i]) {
			t.Fatalf("value at %d = %v, want %v", i, got.Float[i], want.Float[i])
		}
	}
}

func TestNanBinPlaneComplex(t *testing.T) {
	p := []complex128{
		1 + 1i, 2 + 2i,
		complex(math.NaN(), 0), 3 + 3i,
	}
	out := nanBinPlaneComplex(p, 2, 2, 2)
	if len(out) != 1 {
		t.Fatalf("length = %d, want 1", len(out))
	}
	want := complex(2, 2) // mean of the three finite samples
	if out[0] != want {
		t.Errorf("binned complex = %v, want %v", out[0], want)
	}
}
