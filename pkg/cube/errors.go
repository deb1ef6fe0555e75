package cube

import "errors"

// Failure taxonomy for cube access. All of these are structural and
// deterministic: retrying the same call reproduces the same failure.
// Transient I/O errors from the container propagate unchanged.
var (
	// ErrIndexType reports an axis index that is not an integer or a
	// recognized range form.
	ErrIndexType = errors.New("axis index must be an integer or a range")

	// ErrIndexRange reports resolved bounds outside the axis extent.
	ErrIndexRange = errors.New("axis index out of range")

	// ErrCorruptContainer reports declared metadata that disagrees with the
	// actual container structure. The cube is unusable.
	ErrCorruptContainer = errors.New("corrupt container")

	// ErrMissingFrame reports a frame-divided container without frame 0.
	ErrMissingFrame = errors.New("container has no frame 0")

	// ErrMissingQuad reports a quadrant-divided container without quadrant 0.
	ErrMissingQuad = errors.New("container has no quadrant 0")

	// ErrMaskUnavailable reports a mask request against a container that
	// stores no mask planes.
	ErrMaskUnavailable = errors.New("no mask stored with data")
)
