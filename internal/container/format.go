// Package container implements the chunked binary container format used to
// persist spectral cubes on disk. A container holds a flat table of named
// attributes (cube dimensions, layout hints, source image lists) and a flat
// table of named data entries, each an n-dimensional row-major array stored
// as one contiguous blob. Entry names use '/'-separated paths so groups such
// as frame00000/data and frame00000/mask can live side by side.
//
// The reader supports windowed access: a rectangular sub-region of an entry
// can be fetched without loading the whole blob, which is what makes
// out-of-core cube access practical.
package container

import "errors"

// Magic identifies a spectral cube container file.
const Magic = "SCC1"

// Version is the container format version written by this package.
const Version = 1

// Common errors.
var (
	ErrBadMagic      = errors.New("not a spectral cube container")
	ErrBadVersion    = errors.New("unsupported container version")
	ErrEntryNotFound = errors.New("entry not found")
	ErrWrongDtype    = errors.New("entry has a different element type")
	ErrRegionBounds  = errors.New("region outside entry bounds")
	ErrRegionRank    = errors.New("region rank does not match entry rank")
	ErrClosed        = errors.New("container is closed")
)

// Dtype identifies the element type of a stored entry.
type Dtype uint8

const (
	// Float64 is a little-endian IEEE 754 double per element.
	Float64 Dtype = 1
	// Complex128 is two little-endian doubles per element, real then imaginary.
	Complex128 Dtype = 2
	// Bytes is one opaque byte per element, used for masks and header blobs.
	Bytes Dtype = 3
)

// Size returns the stored size of one element in bytes.
func (d Dtype) Size() int {
	switch d {
	case Float64:
		return 8
	case Complex128:
		return 16
	case Bytes:
		return 1
	default:
		return 0
	}
}

func (d Dtype) String() string {
	switch d {
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	case Bytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// attribute value kinds as stored on disk.
const (
	attrInt        uint8 = 0
	attrFloat      uint8 = 1
	attrString     uint8 = 2
	attrStringList uint8 = 3
)

// Entry describes one stored array.
type Entry struct {
	// Name is the full '/'-separated entry path, e.g. "frame00000/data".
	Name string

	// Dtype is the element type of the stored blob.
	Dtype Dtype

	// Dims are the axis extents in row-major order (last axis contiguous).
	Dims []int

	// offset and size locate the blob within the file.
	offset int64
	size   int64
}

// NumElements returns the total element count of the entry.
func (e Entry) NumElements() int {
	n := 1
	for _, d := range e.Dims {
		n *= d
	}
	return n
}

// attrValue is the decoded value of one attribute.
type attrValue struct {
	kind uint8
	i    int64
	f    float64
	s    string
	list []string
}
