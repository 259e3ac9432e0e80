package raster

import (
	"fmt"

	"github.com/georaster/tilewarp/grid"
)

// MemSource is an in-memory Source. It backs tests and acts as the composite
// source for pre-assembled arrays handed in by callers.
type MemSource struct {
	name   string
	affine grid.Affine
	epsg   int
	h, w   int
	dtype  DType
	nodata float64
	bands  [][]float64 // one row-major slice per band
}

// MemSourceConfig describes an in-memory source.
type MemSourceConfig struct {
	Name   string
	Affine grid.Affine
	EPSG   int
	Height int
	Width  int
	DType  DType
	Nodata float64
	// Bands holds one row-major slice of Height*Width samples per band.
	Bands [][]float64
}

// NewMemSource builds an in-memory source from fully materialized bands.
func NewMemSource(cfg MemSourceConfig) (*MemSource, error) {
	if cfg.Height <= 0 || cfg.Width <= 0 {
		return nil, fmt.Errorf("raster: mem source %q: invalid shape %dx%d", cfg.Name, cfg.Height, cfg.Width)
	}
	if len(cfg.Bands) == 0 {
		return nil, fmt.Errorf("raster: mem source %q: no bands", cfg.Name)
	}
	for i, b := range cfg.Bands {
		if len(b) != cfg.Height*cfg.Width {
			return nil, fmt.Errorf("raster: mem source %q: band %d has %d samples, want %d",
				cfg.Name, i+1, len(b), cfg.Height*cfg.Width)
		}
	}
	name := cfg.Name
	if name == "" {
		name = "memory"
	}
	return &MemSource{
		name:   name,
		affine: cfg.Affine,
		epsg:   cfg.EPSG,
		h:      cfg.Height,
		w:      cfg.Width,
		dtype:  cfg.DType,
		nodata: cfg.Nodata,
		bands:  cfg.Bands,
	}, nil
}

func (m *MemSource) Name() string        { return m.name }
func (m *MemSource) Affine() grid.Affine { return m.affine }
func (m *MemSource) EPSG() int           { return m.epsg }
func (m *MemSource) Shape() (int, int)   { return m.h, m.w }
func (m *MemSource) Bands() int          { return len(m.bands) }
func (m *MemSource) DType() DType        { return m.dtype }
func (m *MemSource) Nodata() float64     { return m.nodata }

func (m *MemSource) Read(band, row0, row1, col0, col1 int) (*Band, error) {
	if err := checkWindow(m, band, row0, row1, col0, col1); err != nil {
		return nil, err
	}
	src := m.bands[band-1]
	out := NewBand(row1-row0, col1-col0)
	for r := row0; r < row1; r++ {
		for c := col0; c < col1; c++ {
			v := src[r*m.w+c]
			i := (r-row0)*out.W + (c - col0)
			out.Data[i] = v
			out.Valid[i] = validSample(v, m.nodata)
		}
	}
	return out, nil
}
