// Package quicklook renders a band as a small grayscale preview image for
// visual inspection of what a session produced. Masked pixels become fully
// transparent.
package quicklook

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/gen2brain/webp"
	"golang.org/x/image/draw"

	"github.com/georaster/tilewarp/raster"
)

// Options controls rendering.
type Options struct {
	// MaxSize caps the longer image edge; larger bands are downscaled.
	// Defaults to 512.
	MaxSize int
	// Format is "png" or "webp". Defaults to "png".
	Format string
	// Quality is the lossy webp quality, 1-100. Defaults to 85.
	Quality int
}

func (o *Options) fill() {
	if o.MaxSize <= 0 {
		o.MaxSize = 512
	}
	if o.Format == "" {
		o.Format = "png"
	}
	if o.Quality <= 0 {
		o.Quality = 85
	}
}

// Render stretches the band's valid value range to 8-bit gray and encodes
// it. A band with no valid pixels yields a fully transparent image.
func Render(b *raster.Band, opts Options) ([]byte, error) {
	opts.fill()

	img := rasterize(b)
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w > opts.MaxSize || h > opts.MaxSize {
		img = downscale(img, opts.MaxSize)
	}

	switch opts.Format {
	case "png":
		var buf bytes.Buffer
		enc := &png.Encoder{CompressionLevel: png.BestSpeed}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "webp":
		var buf bytes.Buffer
		if err := webp.Encode(&buf, img, webp.Options{Quality: opts.Quality}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("quicklook: unsupported format %q (supported: png, webp)", opts.Format)
	}
}

// rasterize maps valid samples linearly onto [0, 255]. A constant band
// renders mid-gray so it stays distinguishable from the transparent mask.
func rasterize(b *raster.Band) *image.NRGBA {
	stats := b.Summarize()
	scale := 0.0
	if stats.ValidCount > 0 && stats.Max > stats.Min {
		scale = 255 / (stats.Max - stats.Min)
	}

	img := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	for r := 0; r < b.H; r++ {
		for c := 0; c < b.W; c++ {
			v, ok := b.At(r, c)
			if !ok {
				continue
			}
			g := uint8(128)
			if scale > 0 {
				g = uint8((v-stats.Min)*scale + 0.5)
			}
			img.SetNRGBA(c, r, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}
	return img
}

func downscale(img *image.NRGBA, maxSize int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w >= h {
		h = h * maxSize / w
		w = maxSize
	} else {
		w = w * maxSize / h
		h = maxSize
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), draw.Over, nil)
	return out
}
