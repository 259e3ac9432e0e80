package grid

import (
	"math"
	"testing"
)

func TestAffineApply(t *testing.T) {
	a := FromOrigin(-180, 90, 0.5, 0.5)

	x, y := a.Apply(0, 0)
	if x != -180 || y != 90 {
		t.Errorf("Apply(0,0) = (%f, %f), want (-180, 90)", x, y)
	}

	x, y = a.Apply(10, 4)
	if x != -175 || y != 88 {
		t.Errorf("Apply(10,4) = (%f, %f), want (-175, 88)", x, y)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	cases := []Affine{
		FromOrigin(-180, 90, 0.5, 0.5),
		FromOrigin(2600000, 1200000, 2.5, 2.5),
		{A: 10, B: 0.5, C: 100, D: -0.25, E: -10, F: 5000},
	}

	for _, a := range cases {
		inv := a.Invert()
		for _, pt := range [][2]float64{{0, 0}, {17, 3}, {-4.5, 101.25}} {
			x, y := a.Apply(pt[0], pt[1])
			col, row := inv.Apply(x, y)
			if math.Abs(col-pt[0]) > 1e-9 || math.Abs(row-pt[1]) > 1e-9 {
				t.Errorf("%v: round trip of (%f, %f) = (%f, %f)", a, pt[0], pt[1], col, row)
			}
		}
	}
}

func TestAffineTranslate(t *testing.T) {
	a := FromOrigin(0, 100, 1, 1)
	w := a.Translate(10, 20)

	x, y := w.Apply(0, 0)
	if x != 10 || y != 80 {
		t.Errorf("translated origin = (%f, %f), want (10, 80)", x, y)
	}

	// Pixel sizes are unchanged.
	psx, psy := w.PixelSize()
	if psx != 1 || psy != 1 {
		t.Errorf("translated pixel size = (%f, %f), want (1, 1)", psx, psy)
	}
}

func TestAffinePixelSize(t *testing.T) {
	a := FromOrigin(0, 0, 2.5, 0.5)
	psx, psy := a.PixelSize()
	if psx != 2.5 || psy != 0.5 {
		t.Errorf("PixelSize() = (%f, %f), want (2.5, 0.5)", psx, psy)
	}
}
