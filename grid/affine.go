package grid

import "fmt"

// Affine is a six-parameter transform between pixel and georeferenced
// coordinates:
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// C and F are the coordinates of the top-left corner of pixel (0, 0).
// For north-up rasters B and D are zero and E is negative.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// FromOrigin builds a north-up transform from the top-left corner and the
// pixel sizes. psy is the positive pixel height; the stored E is -psy.
func FromOrigin(originX, originY, psx, psy float64) Affine {
	return Affine{A: psx, C: originX, E: -psy, F: originY}
}

// Apply maps pixel (col, row) to georeferenced (x, y).
func (a Affine) Apply(col, row float64) (x, y float64) {
	return a.A*col + a.B*row + a.C, a.D*col + a.E*row + a.F
}

// Invert returns the inverse transform mapping (x, y) back to (col, row).
// Panics on a degenerate (zero-determinant) transform; such an Affine never
// describes a real raster grid.
func (a Affine) Invert() Affine {
	det := a.A*a.E - a.B*a.D
	if det == 0 {
		panic("grid: affine transform is not invertible")
	}
	ia := a.E / det
	ib := -a.B / det
	id := -a.D / det
	ie := a.A / det
	return Affine{
		A: ia, B: ib, C: -ia*a.C - ib*a.F,
		D: id, E: ie, F: -id*a.C - ie*a.F,
	}
}

// Translate returns the transform shifted by (dcol, drow) pixels, i.e. the
// transform of a window whose pixel (0, 0) is the parent's (dcol, drow).
func (a Affine) Translate(dcol, drow float64) Affine {
	x, y := a.Apply(dcol, drow)
	out := a
	out.C = x
	out.F = y
	return out
}

// PixelSize returns the absolute pixel dimensions (width, height) in
// georeferenced units.
func (a Affine) PixelSize() (psx, psy float64) {
	psx = a.A
	if psx < 0 {
		psx = -psx
	}
	psy = a.E
	if psy < 0 {
		psy = -psy
	}
	return
}

func (a Affine) String() string {
	return fmt.Sprintf("Affine(%g, %g, %g | %g, %g, %g)", a.A, a.B, a.C, a.D, a.E, a.F)
}
