package cube

// Block is a dense copy of one cube region. Data is stored row-major over
// the un-squeezed (x, y, z) request shape with z varying fastest. Exactly
// one of Float and Cplx is set, per the source cube element type; mask
// reads come back in Float as 0/1 values.
type Block struct {
	// Shape is the region shape with size-1 axes dropped. A single plane
	// request therefore yields a 2-D shape, and a single spectrum a 1-D one.
	Shape []int

	// Float holds real-valued samples (and masks).
	Float []float64

	// Cplx holds complex-valued samples.
	Cplx []complex128
}

// IsComplex reports whether the block holds complex samples.
func (b *Block) IsComplex() bool {
	return b.Cplx != nil
}

// NumElements returns the total sample count of the block.
func (b *Block) NumElements() int {
	if b.Cplx != nil {
		return len(b.Cplx)
	}
	return len(b.Float)
}

// squeezeShape drops size-1 axes from an (nx, ny, nz) region shape. A fully
// scalar request keeps a single axis so the shape is never empty.
func squeezeShape(nx, ny, nz int) []int {
	shape := make([]int, 0, 3)
	for _, n := range [3]int{nx, ny, nz} {
		if n > 1 {
			shape = append(shape, n)
		}
	}
	if len(shape) == 0 {
		shape = append(shape, 1)
	}
	return shape
}
