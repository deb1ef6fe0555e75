// Package cube implements virtual, out-of-core access to 3-D spectral data
// cubes persisted in a chunked binary container. A cube routinely exceeds
// available memory, so the package exposes array-like region reads that
// fetch only the requested window from disk, over two on-disk layouts
// (frame-divided and quadrant-divided) that present one identical logical
// view. Optional integer binning downsamples the x/y plane transparently,
// and a boolean mask channel can be requested alongside the data.
package cube

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"spectralcube/internal/container"
	"spectralcube/pkg/params"
)

// Layout is the storage topology of a container-backed cube. It is decided
// once at open time and fixed for the cube's lifetime.
type Layout int

const (
	// LayoutFramed stores dimz independent 2-D planes.
	LayoutFramed Layout = iota
	// LayoutTiled stores a square grid of spatial tiles, each spanning the
	// full z extent.
	LayoutTiled
)

func (l Layout) String() string {
	if l == LayoutTiled {
		return "tiled"
	}
	return "framed"
}

// ProgressFunc receives (current, total, label) notifications during reads
// that span more than one frame or tile. The sink may be nil.
type ProgressFunc func(current, total int, label string)

// Cube is a container-backed 3-D data cube. It owns no sample data, only
// validated metadata and the container path; every region read opens the
// container for the duration of that read. The deep-image cache is the only
// mutable state and is safe for concurrent use.
type Cube struct {
	path string

	// Logical extents as seen by callers. Under binning these are the
	// binned extents, floor(stored/binning).
	dimx, dimy, dimz int

	// Stored x/y extents before binning.
	rawx, rawy int

	layout    Layout
	quadNb    int
	isComplex bool
	maskOK    bool
	binning   int
	workers   int
	imageList []string
	obs       *params.Observation

	progress ProgressFunc
	sugar    *zap.SugaredLogger

	mu   sync.Mutex
	deep []float64
}

// Option configures a Cube at open time.
type Option func(*Cube)

// WithBinning opens the cube spatially binned by the integer factor b.
// Factors below 2 leave the cube unbinned.
func WithBinning(b int) Option {
	return func(c *Cube) {
		if b > 1 {
			c.binning = b
		}
	}
}

// WithWorkers sets the number of goroutines used for tiled region reads.
// Writes into the shared output buffer are disjoint by construction, so
// workers only synchronize on completion.
func WithWorkers(n int) Option {
	return func(c *Cube) {
		if n > 1 {
			c.workers = n
		}
	}
}

// WithProgress installs a progress sink for multi-frame and multi-tile reads.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Cube) {
		c.progress = fn
	}
}

// WithLogger installs a logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cube) {
		c.sugar = l.Sugar()
	}
}

// WithObservation attaches an observation parameter bag to the cube. The
// bag is passthrough metadata; the access layer never interprets it.
func WithObservation(o *params.Observation) Option {
	return func(c *Cube) {
		c.obs = o
	}
}

// Open opens a cube container and validates its declared metadata against
// the structure actually stored. Validation is a one-time gate: if it
// fails, the cube is unusable and no Cube is returned.
func Open(path string, opts ...Option) (*Cube, error) {
	c := &Cube{
		path:    path,
		binning: 1,
		workers: 1,
		sugar:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}

	r, err := container.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if c.dimx, err = c.requireAttr(r, "dimx"); err != nil {
		return nil, err
	}
	if c.dimy, err = c.requireAttr(r, "dimy"); err != nil {
		return nil, err
	}
	if c.dimz, err = c.requireAttr(r, "dimz"); err != nil {
		return nil, err
	}
	if list, ok := r.AttrStringList("image_list"); ok {
		c.imageList = list
	}

	// The presence of a quadrant count is what makes a cube tiled.
	if quadNb, ok := r.AttrInt("quad_nb"); ok {
		c.layout = LayoutTiled
		c.quadNb = int(quadNb)
		if err := c.validateTiled(r); err != nil {
			return nil, err
		}
	} else {
		c.layout = LayoutFramed
		if err := c.validateFramed(r); err != nil {
			return nil, err
		}
	}

	c.rawx, c.rawy = c.dimx, c.dimy
	if c.binning > 1 {
		c.dimx /= c.binning
		c.dimy /= c.binning
	}
	if c.dimx <= 0 || c.dimy <= 0 || c.dimz <= 0 {
		return nil, fmt.Errorf("%w: incorrect data shape (%d, %d, %d)",
			ErrCorruptContainer, c.dimx, c.dimy, c.dimz)
	}

	c.sugar.Infof("data shape: (%d, %d, %d)", c.dimx, c.dimy, c.dimz)
	return c, nil
}

func (c *Cube) requireAttr(r *container.Reader, name string) (int, error) {
	v, ok := r.AttrInt(name)
	if !ok {
		return 0, fmt.Errorf("%w: attribute %q is missing", ErrCorruptContainer, name)
	}
	return int(v), nil
}

// validateFramed checks a frame-divided container: the number of frame
// groups must match dimz, frame 0 must exist, and its shape must match the
// declared plane extents. Frame 0 also fixes the element type and the
// mask-available flag for the whole cube.
func (c *Cube) validateFramed(r *container.Reader) error {
	found := countGroups(r, "frame")
	if found != c.dimz {
		return fmt.Errorf("%w: dimz attribute (%d) does not correspond to the real number of frames (%d)",
			ErrCorruptContainer, c.dimz, found)
	}

	e, ok := r.Entry(frameDataPath(0, false))
	if !ok {
		return fmt.Errorf("%w: a valid cube must contain at least %s", ErrMissingFrame, framePath(0))
	}
	if len(e.Dims) != 2 || e.Dims[0] != c.dimx || e.Dims[1] != c.dimy {
		return fmt.Errorf("%w: frame shape %v does not correspond to the declared %dx%d",
			ErrCorruptContainer, e.Dims, c.dimx, c.dimy)
	}

	c.isComplex = e.Dtype == container.Complex128
	c.maskOK = r.HasEntry(frameDataPath(0, true))
	return nil
}

// validateTiled checks a quadrant-divided container: the number of quad
// groups must match the declared quadrant count and quadrant 0 must exist.
// Quadrant 0 fixes the element type. Tiled containers carry no mask planes.
func (c *Cube) validateTiled(r *container.Reader) error {
	found := countGroups(r, "quad")
	if found != c.quadNb {
		return fmt.Errorf("%w: quad_nb attribute (%d) does not correspond to the real number of quads (%d)",
			ErrCorruptContainer, c.quadNb, found)
	}

	e, ok := r.Entry(quadDataPath(0))
	if !ok {
		return fmt.Errorf("%w: a valid cube must contain at least %s", ErrMissingQuad, quadPath(0))
	}
	c.isComplex = e.Dtype == container.Complex128
	return nil
}

// countGroups counts distinct top-level groups whose name starts with the
// given prefix.
func countGroups(r *container.Reader, prefix string) int {
	seen := make(map[string]bool)
	for _, e := range r.Entries() {
		group, _, _ := strings.Cut(e.Name, "/")
		if strings.HasPrefix(group, prefix) {
			seen[group] = true
		}
	}
	return len(seen)
}

// Path returns the container path.
func (c *Cube) Path() string {
	return c.path
}

// Dims returns the logical cube extents.
func (c *Cube) Dims() (dimx, dimy, dimz int) {
	return c.dimx, c.dimy, c.dimz
}

// Layout returns the storage topology.
func (c *Cube) Layout() Layout {
	return c.layout
}

// QuadNb returns the quadrant count, zero for framed cubes.
func (c *Cube) QuadNb() int {
	return c.quadNb
}

// IsComplex reports whether the cube holds complex samples.
func (c *Cube) IsComplex() bool {
	return c.isComplex
}

// HasMask reports whether a mask channel is stored alongside the data.
func (c *Cube) HasMask() bool {
	return c.maskOK
}

// Binning returns the active binning factor, 1 when unbinned.
func (c *Cube) Binning() int {
	return c.binning
}

// ImageList returns the ordered original source identifiers stored in the
// container, if any. Passthrough metadata only.
func (c *Cube) ImageList() []string {
	return append([]string(nil), c.imageList...)
}

// Observation returns the parameter bag attached at open time, or nil.
func (c *Cube) Observation() *params.Observation {
	return c.obs
}

// FrameHeader returns the opaque header blob of frame k (framed cubes) or
// quadrant k (tiled cubes).
func (c *Cube) FrameHeader(k int) ([]byte, error) {
	r, err := container.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	name := frameHeaderPath(k)
	if c.layout == LayoutTiled {
		name = quadHeaderPath(k)
	}
	return r.ReadBytes(name)
}

// emitProgress forwards one progress step to the installed sink.
func (c *Cube) emitProgress(current, total int, label string) {
	if c.progress != nil {
		c.progress(current, total, label)
	}
}

// isNaNC reports whether a complex sample has a NaN component.
func isNaNC(v complex128) bool {
	return math.IsNaN(real(v)) || math.IsNaN(imag(v))
}
