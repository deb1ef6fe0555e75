package cube

import (
	"fmt"
	"sync"
)

// Array is the virtual 3-D array interface shared by container-backed and
// in-memory cubes: one region-read entry point returning a dense buffer,
// never a raw file handle.
type Array interface {
	// Dims returns the logical cube extents.
	Dims() (dimx, dimy, dimz int)

	// IsComplex reports whether samples are complex-valued.
	IsComplex() bool

	// Read performs one region read.
	Read(Request) (*Block, error)
}

// Both cube kinds satisfy Array.
var (
	_ Array = (*Cube)(nil)
	_ Array = (*Memory)(nil)
)

// Memory is a fully materialized real-valued cube. It serves the same
// indexing interface as a container-backed cube and is mostly useful for
// small derived cubes and tests.
type Memory struct {
	dimx, dimy, dimz int
	data             []float64

	mu   sync.Mutex
	deep []float64
}

// NewMemory wraps a dense buffer of shape (dimx, dimy, dimz), stored
// row-major with z varying fastest. The buffer is used directly, not
// copied.
func NewMemory(data []float64, dimx, dimy, dimz int) (*Memory, error) {
	if dimx <= 0 || dimy <= 0 || dimz <= 0 {
		return nil, fmt.Errorf("incorrect data shape (%d, %d, %d)", dimx, dimy, dimz)
	}
	if len(data) != dimx*dimy*dimz {
		return nil, fmt.Errorf("data length %d does not match shape (%d, %d, %d)",
			len(data), dimx, dimy, dimz)
	}
	return &Memory{dimx: dimx, dimy: dimy, dimz: dimz, data: data}, nil
}

// Dims returns the cube extents.
func (m *Memory) Dims() (dimx, dimy, dimz int) {
	return m.dimx, m.dimy, m.dimz
}

// IsComplex always reports false: in-memory cubes hold real samples.
func (m *Memory) IsComplex() bool {
	return false
}

// Read performs one region read against the in-memory buffer.
func (m *Memory) Read(req Request) (*Block, error) {
	if req.Mask {
		return nil, ErrMaskUnavailable
	}
	reg, err := resolveRegion(req.X, req.Y, req.Z, m.dimx, m.dimy, m.dimz)
	if err != nil {
		return nil, err
	}

	nx, ny, nz := reg.x.len(), reg.y.len(), reg.z.len()
	out := make([]float64, nx*ny*nz)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			srcOff := ((reg.x.min+ix)*m.dimy + (reg.y.min + iy)) * m.dimz
			copy(out[(ix*ny+iy)*nz:(ix*ny+iy+1)*nz], m.data[srcOff+reg.z.min:srcOff+reg.z.max])
		}
	}
	return &Block{Shape: squeezeShape(nx, ny, nz), Float: out}, nil
}

// Get reads the region selected by the three axis indices.
func (m *Memory) Get(x, y, z Index) (*Block, error) {
	return m.Read(Request{X: x, Y: y, Z: z})
}

// DeepImage returns the deep image of the cube, cached after the first
// computation, with the same NaN-as-zero, divide-by-dimz rule as
// container-backed cubes.
func (m *Memory) DeepImage(recompute bool) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deep != nil && !recompute {
		return m.deep, nil
	}
	deep, err := computeDeepImage(m, nil)
	if err != nil {
		return nil, err
	}
	m.deep = deep
	return m.deep, nil
}
