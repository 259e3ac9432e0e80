package quicklook

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/georaster/tilewarp/raster"
)

func rampBand(h, w int) *raster.Band {
	b := raster.NewBand(h, w)
	for i := range b.Data {
		b.Data[i] = float64(i)
		b.Valid[i] = true
	}
	return b
}

func TestRenderPNG(t *testing.T) {
	b := rampBand(4, 4)
	b.SetInvalid(0, 0)

	data, err := Render(b, Options{})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("decoded size = %v, want 4x4", img.Bounds())
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("masked pixel should be transparent")
	}
	if _, _, _, a := img.At(1, 0).RGBA(); a == 0 {
		t.Error("valid pixel should be opaque")
	}
}

func TestRenderWebP(t *testing.T) {
	data, err := Render(rampBand(8, 8), Options{Format: "webp"})
	if err != nil {
		t.Fatal(err)
	}
	// RIFF....WEBP container magic.
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Errorf("output is not a webp container (%d bytes)", len(data))
	}
}

func TestRenderDownscales(t *testing.T) {
	data, err := Render(rampBand(64, 32), Options{MaxSize: 16})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dy() != 16 || img.Bounds().Dx() != 8 {
		t.Errorf("decoded size = %v, want 8x16", img.Bounds())
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(rampBand(2, 2), Options{Format: "tiff"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderAllMasked(t *testing.T) {
	data, err := Render(raster.NewBand(3, 3), Options{})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				t.Fatalf("pixel (%d, %d) not transparent", x, y)
			}
		}
	}
}
