package raster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/georaster/tilewarp/grid"
)

// Source is one georeferenced dataset the engine can read windows from.
// Implementations expose metadata without I/O; Read is the only operation
// that touches pixel data. The engine treats sources as read-only.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Affine returns the pixel-to-CRS transform of the full-resolution grid.
	Affine() grid.Affine

	// EPSG returns the native coordinate reference system code.
	EPSG() int

	// Shape returns the pixel dimensions (height, width).
	Shape() (h, w int)

	// Bands returns the number of bands. Band indexes are 1-based.
	Bands() int

	// DType returns the storage type of the samples.
	DType() DType

	// Nodata returns the sentinel marking pixels without a measurement.
	Nodata() float64

	// Read returns the samples of one band inside the half-open pixel ranges
	// [row0, row1) × [col0, col1). The ranges must lie within the source
	// extent; window clipping happens before Read is called. Pixels equal to
	// the nodata sentinel, and NaN pixels, come back with their Valid flag
	// cleared.
	Read(band, row0, row1, col0, col1 int) (*Band, error)
}

// SourceNotFoundError reports a source whose backing data does not exist.
// It is raised when the source is opened, before any pixel is read.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("raster: source not found: %s: %v", e.Path, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// Footprint returns the georeferenced bounding box of a source in its native
// system.
func Footprint(s Source) orb.Bound {
	h, w := s.Shape()
	return grid.BoundsOf(s.Affine(), h, w)
}

// validSample reports whether a sample carries data. NaN is never data:
// equality cannot match a NaN nodata sentinel, and an unmasked NaN would
// poison every kernel sum it touches.
func validSample(v, nodata float64) bool {
	return !math.IsNaN(v) && v != nodata
}

// checkWindow validates a read window against a source's extent.
func checkWindow(s Source, band, row0, row1, col0, col1 int) error {
	h, w := s.Shape()
	if band < 1 || band > s.Bands() {
		return fmt.Errorf("raster: %s: band %d out of range [1, %d]", s.Name(), band, s.Bands())
	}
	if row0 < 0 || col0 < 0 || row1 > h || col1 > w || row0 > row1 || col0 > col1 {
		return fmt.Errorf("raster: %s: window [%d:%d, %d:%d] outside extent %dx%d",
			s.Name(), row0, row1, col0, col1, h, w)
	}
	return nil
}
