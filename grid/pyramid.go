package grid

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Pyramid describes a square-pixel tile matrix set: the CRS extent it covers,
// the tile edge length in pixels, and the matrix dimensions at zoom 0. Zoom z
// has ColsZ0*2^z columns and RowsZ0*2^z rows; row 0 is the northernmost row.
type Pyramid struct {
	EPSG     int
	Left     float64
	Bottom   float64
	Right    float64
	Top      float64
	TileSize int
	ColsZ0   int
	RowsZ0   int
}

// GeodeticPyramid returns the global WGS84 pyramid (EPSG:4326) with two tiles
// at zoom 0, matching the tile matrix the engine's original grids use.
func GeodeticPyramid() Pyramid {
	return Pyramid{
		EPSG: 4326,
		Left: -180, Bottom: -90, Right: 180, Top: 90,
		TileSize: 256,
		ColsZ0:   2, RowsZ0: 1,
	}
}

// MercatorPyramid returns the global web mercator pyramid (EPSG:3857) with a
// single tile at zoom 0.
func MercatorPyramid() Pyramid {
	const originShift = 20037508.342789244
	return Pyramid{
		EPSG: 3857,
		Left: -originShift, Bottom: -originShift, Right: originShift, Top: originShift,
		TileSize: 256,
		ColsZ0:   1, RowsZ0: 1,
	}
}

// Matrix returns the number of tile columns and rows at the given zoom.
func (p Pyramid) Matrix(zoom int) (cols, rows int) {
	n := 1 << uint(zoom)
	return p.ColsZ0 * n, p.RowsZ0 * n
}

// PixelSize returns the edge length of one pixel in CRS units at the given
// zoom. Pixels are square by construction.
func (p Pyramid) PixelSize(zoom int) float64 {
	cols, _ := p.Matrix(zoom)
	return (p.Right - p.Left) / (float64(cols) * float64(p.TileSize))
}

// Tile returns the tile at (zoom, row, col). The coordinates must lie within
// the matrix at that zoom.
func (p Pyramid) Tile(zoom, row, col int) (Tile, error) {
	if zoom < 0 {
		return Tile{}, fmt.Errorf("grid: zoom %d out of range", zoom)
	}
	cols, rows := p.Matrix(zoom)
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return Tile{}, fmt.Errorf("grid: tile %d/%d/%d outside matrix (%dx%d)", zoom, row, col, cols, rows)
	}
	return Tile{pyramid: p, Zoom: zoom, Row: row, Col: col}, nil
}

// Tile is one cell of a Pyramid, identified by zoom/row/col. Tiles are value
// types; all geometry is derived from the owning pyramid.
type Tile struct {
	pyramid Pyramid
	Zoom    int
	Row     int
	Col     int
}

// EPSG returns the pyramid's coordinate reference system code.
func (t Tile) EPSG() int { return t.pyramid.EPSG }

// PixelSize returns the pixel edge length in CRS units at the tile's zoom.
func (t Tile) PixelSize() float64 { return t.pyramid.PixelSize(t.Zoom) }

// Shape returns the pixel dimensions (height, width) of the tile including
// the given pixel buffer on every edge.
func (t Tile) Shape(pixelbuffer int) (h, w int) {
	n := t.pyramid.TileSize + 2*pixelbuffer
	return n, n
}

// Bounds returns the georeferenced bounding box of the tile, grown by
// pixelbuffer pixels on every edge.
func (t Tile) Bounds(pixelbuffer int) orb.Bound {
	ps := t.PixelSize()
	tileSpan := ps * float64(t.pyramid.TileSize)
	buf := ps * float64(pixelbuffer)
	left := t.pyramid.Left + float64(t.Col)*tileSpan - buf
	top := t.pyramid.Top - float64(t.Row)*tileSpan + buf
	return orb.Bound{
		Min: orb.Point{left, top - tileSpan - 2*buf},
		Max: orb.Point{left + tileSpan + 2*buf, top},
	}
}

// Affine returns the pixel-to-CRS transform for the buffered tile grid.
func (t Tile) Affine(pixelbuffer int) Affine {
	ps := t.PixelSize()
	b := t.Bounds(pixelbuffer)
	return FromOrigin(b.Min[0], b.Max[1], ps, ps)
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.Row, t.Col)
}

// BoundsOf returns the georeferenced bounding box of a raster described by
// its transform and pixel shape.
func BoundsOf(a Affine, height, width int) orb.Bound {
	x0, y0 := a.Apply(0, 0)
	x1, y1 := a.Apply(float64(width), float64(height))
	x2, y2 := a.Apply(float64(width), 0)
	x3, y3 := a.Apply(0, float64(height))
	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}
