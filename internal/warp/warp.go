// Package warp resamples a source pixel window onto a destination grid,
// optionally crossing reference systems. All sampling is validity-mask aware:
// masked source pixels contribute nothing, and a destination pixel with no
// valid contribution stays masked.
package warp

import (
	"fmt"
	"math"

	"github.com/georaster/tilewarp/coord"
	"github.com/georaster/tilewarp/grid"
	"github.com/georaster/tilewarp/raster"
)

// Params describes one warp operation.
type Params struct {
	// SrcAffine is the pixel-to-CRS transform of the (padded) source window.
	SrcAffine grid.Affine
	SrcProj   coord.Projection

	// DstAffine is the pixel-to-CRS transform of the destination grid.
	DstAffine grid.Affine
	DstProj   coord.Projection

	DstHeight int
	DstWidth  int

	Method raster.Resampling
}

// Pad grows a band by nodata margins on each edge. The engine uses it to
// restore a clipped read window to the originally requested shape before
// warping; stretching read pixels to fill the deficit would fabricate data.
func Pad(b *raster.Band, top, bottom, left, right int) *raster.Band {
	if top == 0 && bottom == 0 && left == 0 && right == 0 {
		return b
	}
	out := raster.NewBand(b.H+top+bottom, b.W+left+right)
	for r := 0; r < b.H; r++ {
		srcOff := r * b.W
		dstOff := (r+top)*out.W + left
		copy(out.Data[dstOff:dstOff+b.W], b.Data[srcOff:srcOff+b.W])
		copy(out.Valid[dstOff:dstOff+b.W], b.Valid[srcOff:srcOff+b.W])
	}
	return out
}

// Warp resamples src onto the destination grid described by p. The result
// always has the destination shape; pixels without valid source coverage are
// masked. The only failure mode is malformed parameters.
func Warp(src *raster.Band, p Params) (*raster.Band, error) {
	if p.DstHeight <= 0 || p.DstWidth <= 0 {
		return nil, fmt.Errorf("warp: invalid destination shape %dx%d", p.DstHeight, p.DstWidth)
	}
	if p.SrcProj == nil || p.DstProj == nil {
		return nil, fmt.Errorf("warp: missing projection")
	}

	out := raster.NewBand(p.DstHeight, p.DstWidth)
	srcInv := p.SrcAffine.Invert()
	sameCRS := p.SrcProj.EPSG() == p.DstProj.EPSG()

	// Footprint half-widths in source pixels, for average/mode.
	halfX, halfY := 0.5, 0.5
	if p.Method == raster.Average || p.Method == raster.Mode {
		halfX, halfY = footprintHalfWidths(p, srcInv)
	}

	for r := 0; r < p.DstHeight; r++ {
		for c := 0; c < p.DstWidth; c++ {
			x, y := p.DstAffine.Apply(float64(c)+0.5, float64(r)+0.5)
			if !sameCRS {
				lon, lat := p.DstProj.ToWGS84(x, y)
				x, y = p.SrcProj.FromWGS84(lon, lat)
			}
			u, v := srcInv.Apply(x, y)

			if u < 0 || u > float64(src.W) || v < 0 || v > float64(src.H) {
				continue
			}

			var val float64
			var ok bool
			switch p.Method {
			case raster.Nearest:
				val, ok = sampleNearest(src, u, v)
			case raster.Bilinear:
				val, ok = sampleKernel(src, u, v, 1, triangle)
			case raster.Cubic:
				val, ok = sampleKernel(src, u, v, 2, catmullLUT)
			case raster.CubicSpline:
				val, ok = sampleKernel(src, u, v, 2, bsplineLUT)
			case raster.Lanczos:
				val, ok = sampleKernel(src, u, v, 3, lanczos3LUT)
			case raster.Average:
				val, ok = sampleAverage(src, u, v, halfX, halfY)
			case raster.Mode:
				val, ok = sampleMode(src, u, v, halfX, halfY)
			default:
				return nil, fmt.Errorf("warp: unknown resampling method %v", p.Method)
			}
			if ok {
				out.Set(r, c, val)
			}
		}
	}
	return out, nil
}

// footprintHalfWidths estimates half the destination pixel footprint in
// source pixel units, evaluated at the destination grid center. Never less
// than half a source pixel.
func footprintHalfWidths(p Params, srcInv grid.Affine) (hx, hy float64) {
	cx := float64(p.DstWidth) / 2
	cy := float64(p.DstHeight) / 2

	toSrcPixel := func(col, row float64) (float64, float64) {
		x, y := p.DstAffine.Apply(col, row)
		if p.SrcProj.EPSG() != p.DstProj.EPSG() {
			lon, lat := p.DstProj.ToWGS84(x, y)
			x, y = p.SrcProj.FromWGS84(lon, lat)
		}
		return srcInv.Apply(x, y)
	}

	u0, v0 := toSrcPixel(cx-0.5, cy-0.5)
	u1, v1 := toSrcPixel(cx+0.5, cy+0.5)
	hx = math.Abs(u1-u0) / 2
	hy = math.Abs(v1-v0) / 2
	if hx < 0.5 {
		hx = 0.5
	}
	if hy < 0.5 {
		hy = 0.5
	}
	return
}

// sampleNearest reads the source pixel containing (u, v).
func sampleNearest(b *raster.Band, u, v float64) (float64, bool) {
	col := clamp(int(math.Floor(u)), 0, b.W-1)
	row := clamp(int(math.Floor(v)), 0, b.H-1)
	return b.At(row, col)
}

// sampleKernel applies a symmetric separable kernel with the given support
// (half-width in pixels) around (u, v). Masked neighbors get zero weight so
// they cannot bleed nodata values into the result; if every neighbor is
// masked the sample is invalid.
func sampleKernel(b *raster.Band, u, v float64, support int, kernel func(float64) float64) (float64, bool) {
	// Sample positions are pixel centers: pixel i sits at i+0.5.
	fu := u - 0.5
	fv := v - 0.5
	col0 := int(math.Floor(fu)) - support + 1
	row0 := int(math.Floor(fv)) - support + 1
	n := 2 * support

	var sum, wSum float64
	for ky := 0; ky < n; ky++ {
		row := row0 + ky
		wy := kernel(fv - float64(row))
		if wy == 0 {
			continue
		}
		cr := clamp(row, 0, b.H-1)
		for kx := 0; kx < n; kx++ {
			col := col0 + kx
			w := kernel(fu-float64(col)) * wy
			if w == 0 {
				continue
			}
			cc := clamp(col, 0, b.W-1)
			val, ok := b.At(cr, cc)
			if !ok {
				continue
			}
			sum += val * w
			wSum += w
		}
	}

	if wSum == 0 {
		return 0, false
	}
	return sum / wSum, true
}

// sampleAverage takes the mean of the valid source pixels under the
// destination pixel footprint centered at (u, v).
func sampleAverage(b *raster.Band, u, v, halfX, halfY float64) (float64, bool) {
	r0, r1, c0, c1 := footprintRange(b, u, v, halfX, halfY)

	var sum float64
	var n int
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			if val, ok := b.At(r, c); ok {
				sum += val
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// sampleMode takes the most frequent valid value under the footprint.
// Ties break toward the smallest value so the result is deterministic.
func sampleMode(b *raster.Band, u, v, halfX, halfY float64) (float64, bool) {
	r0, r1, c0, c1 := footprintRange(b, u, v, halfX, halfY)

	counts := make(map[float64]int)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			if val, ok := b.At(r, c); ok {
				counts[val]++
			}
		}
	}
	if len(counts) == 0 {
		return 0, false
	}

	var best float64
	bestN := -1
	for val, n := range counts {
		if n > bestN || (n == bestN && val < best) {
			best = val
			bestN = n
		}
	}
	return best, true
}

func footprintRange(b *raster.Band, u, v, halfX, halfY float64) (r0, r1, c0, c1 int) {
	c0 = clamp(int(math.Floor(u-halfX)), 0, b.W-1)
	c1 = clamp(int(math.Ceil(u+halfX))-1, 0, b.W-1)
	r0 = clamp(int(math.Floor(v-halfY)), 0, b.H-1)
	r1 = clamp(int(math.Ceil(v+halfY))-1, 0, b.H-1)
	return
}
