package warp

import "math"

// triangle is the linear (bilinear) kernel: 1-|x| inside [-1, 1].
func triangle(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x >= 1 {
		return 0
	}
	return 1 - x
}

// catmullRom computes the Catmull-Rom (a = -0.5) cubic kernel value:
//
//	W(x) = 1.5|x|³ - 2.5|x|² + 1         for |x| ≤ 1
//	W(x) = -0.5|x|³ + 2.5|x|² - 4|x| + 2 for 1 < |x| ≤ 2
//	W(x) = 0                             for |x| > 2
func catmullRom(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x >= 2 {
		return 0
	}
	x2 := x * x
	x3 := x2 * x
	if x <= 1 {
		return 1.5*x3 - 2.5*x2 + 1
	}
	return -0.5*x3 + 2.5*x2 - 4*x + 2
}

// bspline computes the cubic B-spline kernel value:
//
//	W(x) = (3|x|³ - 6|x|² + 4) / 6 for |x| ≤ 1
//	W(x) = (2 - |x|)³ / 6          for 1 < |x| ≤ 2
//
// Strictly non-negative, so it never overshoots; trades sharpness for
// smoothness compared to Catmull-Rom.
func bspline(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x >= 2 {
		return 0
	}
	if x <= 1 {
		return (3*x*x*x - 6*x*x + 4) / 6
	}
	d := 2 - x
	return d * d * d / 6
}

// lanczos3 computes the Lanczos-3 kernel value. The kernel is a windowed sinc:
//
//	L₃(x) = sinc(x) · sinc(x/3) for |x| < 3
//	      = 0                   for |x| ≥ 3
//
// where sinc(x) = sin(πx)/(πx). At x = 0 the limit is 1.
// Simplified: L₃(x) = 3·sin(πx)·sin(πx/3) / (π²x²).
func lanczos3(x float64) float64 {
	if x == 0 {
		return 1
	}
	if x < -3 || x > 3 {
		return 0
	}
	xPi := x * math.Pi
	return 3 * math.Sin(xPi) * math.Sin(xPi/3) / (xPi * xPi)
}

// kernelLUTSize is the number of entries in each half of a kernel lookup
// table. 1024 entries keeps the interpolation error well below what matters
// for sub-pixel resampling while eliminating per-sample trig calls.
const kernelLUTSize = 1024

var (
	lanczos3Table [kernelLUTSize]float64
	catmullTable  [kernelLUTSize]float64
	bsplineTable  [kernelLUTSize]float64
)

func init() {
	for i := 0; i < kernelLUTSize; i++ {
		lanczos3Table[i] = lanczos3(float64(i) * 3.0 / kernelLUTSize)
		catmullTable[i] = catmullRom(float64(i) * 2.0 / kernelLUTSize)
		bsplineTable[i] = bspline(float64(i) * 2.0 / kernelLUTSize)
	}
}

// lookupKernel evaluates a symmetric kernel via its table with linear
// interpolation. support is the kernel half-width in pixels.
func lookupKernel(table *[kernelLUTSize]float64, support, x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x >= support {
		return 0
	}
	pos := x * (kernelLUTSize / support)
	idx := int(pos)
	if idx >= kernelLUTSize-1 {
		return table[kernelLUTSize-1]
	}
	frac := pos - float64(idx)
	return table[idx]*(1-frac) + table[idx+1]*frac
}

func lanczos3LUT(x float64) float64 { return lookupKernel(&lanczos3Table, 3, x) }
func catmullLUT(x float64) float64  { return lookupKernel(&catmullTable, 2, x) }
func bsplineLUT(x float64) float64  { return lookupKernel(&bsplineTable, 2, x) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
