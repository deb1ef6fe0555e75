package cube

import "fmt"

// Canonical container entry names. A frame-divided container stores one
// group per plane (frame00000, frame00001, ...), a quadrant-divided
// container one group per spatial tile (quad000, quad001, ...). Each group
// holds a data entry and an opaque header entry; frames may add a mask.

func framePath(k int) string {
	return fmt.Sprintf("frame%05d", k)
}

func frameDataPath(k int, mask bool) string {
	if mask {
		return framePath(k) + "/mask"
	}
	return framePath(k) + "/data"
}

func frameHeaderPath(k int) string {
	return framePath(k) + "/header"
}

func quadPath(i int) string {
	return fmt.Sprintf("quad%03d", i)
}

func quadDataPath(i int) string {
	return quadPath(i) + "/data"
}

func quadHeaderPath(i int) string {
	return quadPath(i) + "/header"
}

// quadrantDims returns the x/y rectangle covered by quadrant i when the
// plane is cut into a side x side grid. Quadrants are laid out with the
// column index varying fastest (i mod side) and interior cells ceil(dim/side)
// wide; the last row and column absorb the remainder. Together the
// rectangles tile [0,dimx) x [0,dimy) exactly, with no gaps or overlaps.
func quadrantDims(i, dimx, dimy, side int) (xmin, xmax, ymin, ymax int) {
	ix := i % side
	iy := i / side

	cellX := (dimx + side - 1) / side
	cellY := (dimy + side - 1) / side

	xmin = min(ix*cellX, dimx)
	if ix == side-1 {
		xmax = dimx
	} else {
		xmax = min((ix+1)*cellX, dimx)
	}

	ymin = min(iy*cellY, dimy)
	if iy == side-1 {
		ymax = dimy
	} else {
		ymax = min((iy+1)*cellY, dimy)
	}
	return xmin, xmax, ymin, ymax
}
