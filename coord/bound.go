package coord

import (
	"math"

	"github.com/paulmach/orb"
)

// boundDensify is the number of sample points per bounding-box edge used when
// reprojecting. Projected edges curve, so corner-only projection can clip the
// true extent; 21 points per edge keeps the error well below a pixel at any
// practical zoom.
const boundDensify = 21

// TransformBound reprojects a bounding box from one system to another by
// sampling densified edge points and taking the extremes. When from and to
// share an EPSG code the bound is returned unchanged.
func TransformBound(b orb.Bound, from, to Projection) orb.Bound {
	if from.EPSG() == to.EPSG() {
		return b
	}

	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)

	sample := func(x, y float64) {
		lon, lat := from.ToWGS84(x, y)
		tx, ty := to.FromWGS84(lon, lat)
		minX = math.Min(minX, tx)
		maxX = math.Max(maxX, tx)
		minY = math.Min(minY, ty)
		maxY = math.Max(maxY, ty)
	}

	dx := (b.Max[0] - b.Min[0]) / float64(boundDensify-1)
	dy := (b.Max[1] - b.Min[1]) / float64(boundDensify-1)
	for i := 0; i < boundDensify; i++ {
		x := b.Min[0] + float64(i)*dx
		y := b.Min[1] + float64(i)*dy
		sample(x, b.Min[1])
		sample(x, b.Max[1])
		sample(b.Min[0], y)
		sample(b.Max[0], y)
	}

	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}

// TransformPoint reprojects a single coordinate pair between two systems.
func TransformPoint(x, y float64, from, to Projection) (float64, float64) {
	if from.EPSG() == to.EPSG() {
		return x, y
	}
	lon, lat := from.ToWGS84(x, y)
	return to.FromWGS84(lon, lat)
}
