package cube

import (
	"errors"
	"math"
	"testing"
)

func TestNewMemoryValidation(t *testing.T) {
	if _, err := NewMemory(make([]float64, 5), 2, 3, 1); err == nil {
		t.Error("NewMemory accepted a short buffer")
	}
	if _, err := NewMemory(nil, 0, 1, 1); err == nil {
		t.Error("NewMemory accepted a zero extent")
	}
	if _, err := NewMemory(make([]float64, 6), 2, 3, 1); err != nil {
		t.Errorf("NewMemory rejected a valid buffer: %v", err)
	}
}

func TestMemoryRead(t *testing.T) {
	const dimx, dimy, dimz = 4, 3, 2
	f := func(x, y, z int) float64 { return float64(100*x + 10*y + z) }
	m, err := NewMemory(makeCubeData(dimx, dimy, dimz, f), dimx, dimy, dimz)
	if err != nil {
		t.Fatalf("NewMemory failed: %v", err)
	}

	blk, err := m.Get(Range(1, 3), All(), At(1))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(blk.Shape) != 2 || blk.Shape[0] != 2 || blk.Shape[1] != dimy {
		t.Fatalf("Shape = %v, want [2 %d]", blk.Shape, dimy)
	}
	for ix := 0; ix < 2; ix++ {
		for iy := 0; iy < dimy; iy++ {
			got := blk.Float[ix*dimy+iy]
			if want := f(ix+1, iy, 1); got != want {
				t.Fatalf("value at (%d, %d) = %v, want %v", ix, iy, got, want)
			}
		}
	}
}

func TestMemoryMaskUnavailable(t *testing.T) {
	m, err := NewMemory(make([]float64, 4), 2, 2, 1)
	if err != nil {
		t.Fatalf("NewMemory failed: %v", err)
	}
	_, err = m.Read(Request{X: All(), Y: All(), Z: All(), Mask: true})
	if !errors.Is(err, ErrMaskUnavailable) {
		t.Errorf("got %v, want ErrMaskUnavailable", err)
	}
}

func TestMemoryDeepImageMatchesCube(t *testing.T) {
	const dimx, dimy, dimz = 3, 3, 3
	data := makeCubeData(dimx, dimy, dimz, func(x, y, z int) float64 {
		if x == 1 && y == 1 && z == 0 {
			return math.NaN()
		}
		return float64(x + y + z)
	})

	m, err := NewMemory(data, dimx, dimy, dimz)
	if err != nil {
		t.Fatalf("NewMemory failed: %v", err)
	}
	c, err := Open(buildFramed(t, data, dimx, dimy, dimz, nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	md, err := m.DeepImage(false)
	if err != nil {
		t.Fatalf("memory DeepImage failed: %v", err)
	}
	cd, err := c.DeepImage(false)
	if err != nil {
		t.Fatalf("cube DeepImage failed: %v", err)
	}
	for i := range cd {
		if md[i] != cd[i] {
			t.Fatalf("deep value at %d: memory %v, cube %v", i, md[i], cd[i])
		}
	}
}
