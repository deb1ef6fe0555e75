package cube

import "fmt"

// Index selects positions along one cube axis. The concrete forms are
// At (a single position), Range/From/To (half-open ranges, with negative
// stop counted from the axis end) and All. Each axis of a request is
// resolved independently against that axis extent.
type Index interface {
	resolve(extent int) (span, error)
}

// span is a resolved half-open range [min, max) within one axis.
type span struct {
	min, max int
}

func (s span) len() int {
	return s.max - s.min
}

// At selects the single position i, resolving to [i, i+1).
type At int

func (a At) resolve(extent int) (span, error) {
	i := int(a)
	if i < 0 || i >= extent {
		return span{}, fmt.Errorf("%w: index %d, extent %d", ErrIndexRange, i, extent)
	}
	return span{i, i + 1}, nil
}

// axisRange is the shared implementation behind Range, From, To and All.
// An absent bound defaults to the corresponding axis edge.
type axisRange struct {
	start, stop       int
	hasStart, hasStop bool
}

func (r axisRange) resolve(extent int) (span, error) {
	min := 0
	if r.hasStart {
		if r.start < 0 || r.start > extent {
			return span{}, fmt.Errorf("%w: start %d, extent %d", ErrIndexRange, r.start, extent)
		}
		min = r.start
	}

	max := extent
	if r.hasStop {
		stop := r.stop
		if stop < 0 {
			// Negative stop counts back from the axis end.
			stop = extent + stop
		}
		if stop > extent || stop <= min {
			return span{}, fmt.Errorf("%w: range [%d, %d), extent %d", ErrIndexRange, min, stop, extent)
		}
		max = stop
	}
	if max <= min {
		return span{}, fmt.Errorf("%w: range [%d, %d), extent %d", ErrIndexRange, min, max, extent)
	}
	return span{min, max}, nil
}

// All selects the whole axis.
func All() Index {
	return axisRange{}
}

// Range selects the half-open range [start, stop). A negative stop is
// interpreted relative to the axis end.
func Range(start, stop int) Index {
	return axisRange{start: start, stop: stop, hasStart: true, hasStop: true}
}

// From selects [start, extent).
func From(start int) Index {
	return axisRange{start: start, hasStart: true}
}

// To selects [0, stop). A negative stop is interpreted relative to the
// axis end.
func To(stop int) Index {
	return axisRange{stop: stop, hasStop: true}
}

// resolveAxis normalizes one axis index against the axis extent.
func resolveAxis(ix Index, extent int) (span, error) {
	if ix == nil {
		return span{}, fmt.Errorf("%w: nil index", ErrIndexType)
	}
	return ix.resolve(extent)
}

// region is a fully resolved three-axis request.
type region struct {
	x, y, z span
}

// resolveRegion normalizes the three axis indices of a request against the
// given extents.
func resolveRegion(x, y, z Index, dimx, dimy, dimz int) (region, error) {
	xs, err := resolveAxis(x, dimx)
	if err != nil {
		return region{}, fmt.Errorf("x axis: %w", err)
	}
	ys, err := resolveAxis(y, dimy)
	if err != nil {
		return region{}, fmt.Errorf("y axis: %w", err)
	}
	zs, err := resolveAxis(z, dimz)
	if err != nil {
		return region{}, fmt.Errorf("z axis: %w", err)
	}
	return region{xs, ys, zs}, nil
}
