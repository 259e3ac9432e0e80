// Package window computes clipped source-pixel read windows for a target
// area, recording how much nodata padding each edge needs to restore the
// originally requested shape.
package window

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/georaster/tilewarp/grid"
)

// Window is a read range in source pixel space. The row/col ranges are
// half-open and always lie within the source extent; the four offsets record
// how many pixel rows/columns of the requested area fell outside the extent
// on each edge. A caller reading [Row0:Row1, Col0:Col1] and padding by the
// offsets recovers exactly the requested pixel shape.
type Window struct {
	Row0, Row1 int
	Col0, Col1 int

	Top, Bottom, Left, Right int
}

// Height returns the number of readable rows.
func (w Window) Height() int { return w.Row1 - w.Row0 }

// Width returns the number of readable columns.
func (w Window) Width() int { return w.Col1 - w.Col0 }

// PaddedShape returns the shape after nodata padding, i.e. the shape of the
// originally requested area.
func (w Window) PaddedShape() (h, wd int) {
	return w.Height() + w.Top + w.Bottom, w.Width() + w.Left + w.Right
}

// Affine returns the pixel-to-CRS transform of the padded window: the
// source transform shifted to the unclipped window origin.
func (w Window) Affine(src grid.Affine) grid.Affine {
	return src.Translate(float64(w.Col0-w.Left), float64(w.Row0-w.Top))
}

func (w Window) String() string {
	return fmt.Sprintf("Window[%d:%d, %d:%d] pad(t%d b%d l%d r%d)",
		w.Row0, w.Row1, w.Col0, w.Col1, w.Top, w.Bottom, w.Left, w.Right)
}

// Resolve computes the source-pixel window covering bounds, which must
// already be expressed in the source's reference system. The window is
// clipped to [0, height) × [0, width); clipped amounts become edge offsets.
// ok is false when the bounds do not touch the source extent at all.
func Resolve(bounds orb.Bound, src grid.Affine, height, width int) (w Window, ok bool) {
	inv := src.Invert()

	minCol := math.Inf(1)
	minRow := math.Inf(1)
	maxCol := math.Inf(-1)
	maxRow := math.Inf(-1)
	for _, pt := range [][2]float64{
		{bounds.Min[0], bounds.Min[1]},
		{bounds.Min[0], bounds.Max[1]},
		{bounds.Max[0], bounds.Min[1]},
		{bounds.Max[0], bounds.Max[1]},
	} {
		col, row := inv.Apply(pt[0], pt[1])
		minCol = math.Min(minCol, col)
		maxCol = math.Max(maxCol, col)
		minRow = math.Min(minRow, row)
		maxRow = math.Max(maxRow, row)
	}

	// Snap outward so partially covered pixels are included. The rounding
	// guard keeps grid-aligned requests from picking up a spurious extra
	// row/column through float noise.
	row0 := int(math.Floor(roundEps(minRow)))
	row1 := int(math.Ceil(roundEps(maxRow)))
	col0 := int(math.Floor(roundEps(minCol)))
	col1 := int(math.Ceil(roundEps(maxCol)))

	row0, row1, w.Top, w.Bottom = clipRange(row0, row1, height)
	col0, col1, w.Left, w.Right = clipRange(col0, col1, width)
	w.Row0, w.Row1 = row0, row1
	w.Col0, w.Col1 = col0, col1

	if w.Height() <= 0 || w.Width() <= 0 {
		return Window{}, false
	}
	return w, true
}

// clipRange crops a half-open range to [0, max) and returns the amount
// removed from each end.
func clipRange(lo, hi, max int) (clo, chi, loOff, hiOff int) {
	clo, chi = lo, hi
	if clo < 0 {
		loOff = -clo
		clo = 0
	}
	if chi > max {
		hiOff = chi - max
		chi = max
	}
	if chi < clo {
		chi = clo
	}
	return
}

// roundEps snaps values within 1e-9 of an integer to that integer.
func roundEps(v float64) float64 {
	r := math.Round(v)
	if math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}
