package warp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/georaster/tilewarp/coord"
	"github.com/georaster/tilewarp/grid"
	"github.com/georaster/tilewarp/raster"
)

// demBand is a 4x4 band with one masked pixel at (2, 1).
func demBand() *raster.Band {
	b := raster.NewBand(4, 4)
	for i := range b.Data {
		b.Data[i] = float64(i + 1)
		b.Valid[i] = true
	}
	b.SetInvalid(2, 1)
	return b
}

func identityParams(method raster.Resampling) Params {
	a := grid.FromOrigin(0, 4, 1, 1)
	return Params{
		SrcAffine: a,
		SrcProj:   &coord.WGS84Identity{},
		DstAffine: a,
		DstProj:   &coord.WGS84Identity{},
		DstHeight: 4,
		DstWidth:  4,
		Method:    method,
	}
}

func TestWarpIdentityNearest(t *testing.T) {
	src := demBand()
	out, err := Warp(src, identityParams(raster.Nearest))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Data, out.Data); diff != "" {
		t.Errorf("identity warp changed data (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(src.Valid, out.Valid); diff != "" {
		t.Errorf("identity warp changed mask (-want +got):\n%s", diff)
	}
}

func TestWarpIdentityBilinear(t *testing.T) {
	// Pixel centers line up exactly, so bilinear collapses to a copy.
	src := demBand()
	out, err := Warp(src, identityParams(raster.Bilinear))
	if err != nil {
		t.Fatal(err)
	}
	for i := range src.Data {
		if src.Valid[i] && math.Abs(out.Data[i]-src.Data[i]) > 1e-12 {
			t.Errorf("pixel %d = %f, want %f", i, out.Data[i], src.Data[i])
		}
	}
	if !out.Valid[2*4+1] {
		// Aligned bilinear puts full weight on the one masked neighbor.
		t.Log("masked pixel stayed masked")
	} else {
		t.Error("masked source pixel produced a valid output sample")
	}
}

func TestWarpQuadrantCoverage(t *testing.T) {
	// Source covers only the top-left quadrant of the destination grid.
	src := raster.NewFilledBand(2, 2, 7)
	p := Params{
		SrcAffine: grid.FromOrigin(0, 4, 1, 1),
		SrcProj:   &coord.WGS84Identity{},
		DstAffine: grid.FromOrigin(0, 4, 1, 1),
		DstProj:   &coord.WGS84Identity{},
		DstHeight: 4,
		DstWidth:  4,
		Method:    raster.Nearest,
	}
	out, err := Warp(src, p)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			val, ok := out.At(r, c)
			inside := r < 2 && c < 2
			if ok != inside {
				t.Errorf("pixel (%d, %d) valid = %v, want %v", r, c, ok, inside)
			}
			if inside && val != 7 {
				t.Errorf("pixel (%d, %d) = %f, want 7", r, c, val)
			}
		}
	}
}

func TestWarpAllInvalidStaysInvalid(t *testing.T) {
	src := raster.NewBand(4, 4)
	for _, m := range []raster.Resampling{raster.Nearest, raster.Bilinear, raster.Lanczos, raster.Average} {
		out, err := Warp(src, identityParams(m))
		if err != nil {
			t.Fatal(err)
		}
		if !out.AllInvalid() {
			t.Errorf("%v: warp of fully masked band yielded valid pixels", m)
		}
	}
}

func TestWarpAverageDownsample(t *testing.T) {
	src := demBand()
	p := Params{
		SrcAffine: grid.FromOrigin(0, 4, 1, 1),
		SrcProj:   &coord.WGS84Identity{},
		DstAffine: grid.FromOrigin(0, 4, 2, 2),
		DstProj:   &coord.WGS84Identity{},
		DstHeight: 2,
		DstWidth:  2,
		Method:    raster.Average,
	}
	out, err := Warp(src, p)
	if err != nil {
		t.Fatal(err)
	}
	// Each destination pixel averages a 2x2 source block; the masked pixel
	// (value 10) drops out of the bottom-left mean.
	want := []float64{
		(1 + 2 + 5 + 6) / 4.0, (3 + 4 + 7 + 8) / 4.0,
		(9 + 13 + 14) / 3.0, (11 + 12 + 15 + 16) / 4.0,
	}
	for i, w := range want {
		if math.Abs(out.Data[i]-w) > 1e-12 {
			t.Errorf("pixel %d = %f, want %f", i, out.Data[i], w)
		}
	}
}

func TestWarpModeDeterministicTie(t *testing.T) {
	src := raster.NewBand(2, 2)
	for i, v := range []float64{5, 5, 3, 3} {
		src.Data[i] = v
		src.Valid[i] = true
	}
	p := Params{
		SrcAffine: grid.FromOrigin(0, 2, 1, 1),
		SrcProj:   &coord.WGS84Identity{},
		DstAffine: grid.FromOrigin(0, 2, 2, 2),
		DstProj:   &coord.WGS84Identity{},
		DstHeight: 1,
		DstWidth:  1,
		Method:    raster.Mode,
	}
	out, err := Warp(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := out.At(0, 0); !ok || v != 3 {
		t.Errorf("mode = %f (valid %v), want tie broken to 3", v, ok)
	}
}

func TestWarpCrossCRSNearest(t *testing.T) {
	// Four constant quadrant values over lon/lat [0,2]x[0,2]; the web
	// mercator distortion near the equator is far below half a pixel, so
	// nearest must land every destination sample in its own quadrant.
	src := raster.NewBand(2, 2)
	for i, v := range []float64{1, 2, 3, 4} {
		src.Data[i] = v
		src.Valid[i] = true
	}

	merc := &coord.WebMercator{}
	xMax, yMax := merc.FromWGS84(2, 2)
	p := Params{
		SrcAffine: grid.FromOrigin(0, 2, 1, 1),
		SrcProj:   &coord.WGS84Identity{},
		DstAffine: grid.FromOrigin(0, yMax, xMax/2, yMax/2),
		DstProj:   merc,
		DstHeight: 2,
		DstWidth:  2,
		Method:    raster.Nearest,
	}
	out, err := Warp(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Data, out.Data); diff != "" {
		t.Errorf("cross-CRS quadrants mismatch (-want +got):\n%s", diff)
	}
}

func TestPadRestoresShape(t *testing.T) {
	b := raster.NewFilledBand(2, 2, 9)
	out := Pad(b, 1, 0, 2, 1)
	if out.H != 3 || out.W != 5 {
		t.Fatalf("padded shape = %dx%d, want 3x5", out.H, out.W)
	}
	if v, ok := out.At(1, 2); !ok || v != 9 {
		t.Errorf("data pixel = %f (valid %v), want 9", v, ok)
	}
	for _, rc := range [][2]int{{0, 0}, {0, 4}, {1, 0}, {2, 4}, {1, 4}} {
		if _, ok := out.At(rc[0], rc[1]); ok {
			t.Errorf("margin pixel (%d, %d) should be masked", rc[0], rc[1])
		}
	}
}

func TestWarpBadParams(t *testing.T) {
	src := raster.NewFilledBand(2, 2, 1)
	p := identityParams(raster.Nearest)
	p.DstHeight = 0
	if _, err := Warp(src, p); err == nil {
		t.Error("expected error for zero destination height")
	}
	p = identityParams(raster.Nearest)
	p.SrcProj = nil
	if _, err := Warp(src, p); err == nil {
		t.Error("expected error for missing projection")
	}
}
