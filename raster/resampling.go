package raster

import "fmt"

// Resampling selects the interpolation used when warping source pixels onto a
// destination grid.
type Resampling int

const (
	// Nearest takes the closest source pixel. The right choice for
	// categorical data (class maps, flags), where interpolated values are
	// meaningless.
	Nearest Resampling = iota
	// Bilinear interpolates over a 2×2 neighborhood.
	Bilinear
	// Cubic uses the Catmull-Rom kernel over a 4×4 neighborhood.
	Cubic
	// CubicSpline uses the cubic B-spline kernel over a 4×4 neighborhood;
	// smoother than Catmull-Rom, never overshoots.
	CubicSpline
	// Lanczos uses the Lanczos-3 windowed sinc over a 6×6 neighborhood.
	// The default for continuous data.
	Lanczos
	// Average takes the mean of the source pixels under the destination
	// pixel's footprint.
	Average
	// Mode takes the most frequent source value under the destination
	// pixel's footprint.
	Mode
)

var resamplingNames = map[Resampling]string{
	Nearest:     "nearest",
	Bilinear:    "bilinear",
	Cubic:       "cubic",
	CubicSpline: "cubic_spline",
	Lanczos:     "lanczos",
	Average:     "average",
	Mode:        "mode",
}

// ParseResampling maps a method name to its Resampling value.
func ParseResampling(s string) (Resampling, error) {
	for r, name := range resamplingNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("raster: unknown resampling method %q", s)
}

func (r Resampling) String() string {
	if s, ok := resamplingNames[r]; ok {
		return s
	}
	return fmt.Sprintf("resampling(%d)", int(r))
}
