package raster

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/golang/snappy"

	"github.com/georaster/tilewarp/grid"
)

// gridFileMeta is the TOML sidecar describing a grid file payload.
type gridFileMeta struct {
	EPSG   int     `toml:"epsg"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Bands  int     `toml:"bands"`
	DType  string  `toml:"dtype"`
	Nodata float64 `toml:"nodata"`

	// Georeferencing fallback when no world-file sidecar exists.
	OriginX   float64 `toml:"origin_x"`
	OriginY   float64 `toml:"origin_y"`
	PixelSize float64 `toml:"pixel_size"`
}

// GridFile is a Source backed by a snappy-compressed raw sample payload
// (band-sequential, little-endian, row-major) with a TOML metadata sidecar
// and an optional world-file sidecar for georeferencing.
//
// The payload is decoded lazily on first Read and kept for the life of the
// GridFile, so a source shared by several tiles decompresses once.
type GridFile struct {
	path   string
	meta   gridFileMeta
	dtype  DType
	affine grid.Affine

	once    sync.Once
	loadErr error
	samples []float64
}

// OpenGridFile opens a .grd source. Metadata is read eagerly; the payload is
// not touched until the first Read.
func OpenGridFile(path string) (*GridFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceNotFoundError{Path: path, Err: err}
	}

	metaPath := sidecarPath(path, ".toml")
	var meta gridFileMeta
	if _, err := toml.DecodeFile(metaPath, &meta); err != nil {
		if os.IsNotExist(err) {
			return nil, &SourceNotFoundError{Path: metaPath, Err: err}
		}
		return nil, fmt.Errorf("raster: reading sidecar %s: %w", metaPath, err)
	}

	if meta.Width <= 0 || meta.Height <= 0 {
		return nil, fmt.Errorf("raster: %s: invalid shape %dx%d", path, meta.Height, meta.Width)
	}
	if meta.Bands <= 0 {
		return nil, fmt.Errorf("raster: %s: invalid band count %d", path, meta.Bands)
	}

	dtype, err := ParseDType(meta.DType)
	if err != nil {
		return nil, fmt.Errorf("raster: %s: %w", path, err)
	}

	var affine grid.Affine
	if wf := grid.FindWorldFile(path); wf != "" {
		affine, err = grid.ParseWorldFile(wf)
		if err != nil {
			return nil, err
		}
	} else if meta.PixelSize > 0 {
		affine = grid.FromOrigin(meta.OriginX, meta.OriginY, meta.PixelSize, meta.PixelSize)
	} else {
		return nil, fmt.Errorf("raster: %s: no world file and no origin/pixel_size in sidecar", path)
	}

	return &GridFile{path: path, meta: meta, dtype: dtype, affine: affine}, nil
}

func (g *GridFile) Name() string        { return g.path }
func (g *GridFile) Affine() grid.Affine { return g.affine }
func (g *GridFile) EPSG() int           { return g.meta.EPSG }
func (g *GridFile) Shape() (int, int)   { return g.meta.Height, g.meta.Width }
func (g *GridFile) Bands() int          { return g.meta.Bands }
func (g *GridFile) DType() DType        { return g.dtype }
func (g *GridFile) Nodata() float64     { return g.meta.Nodata }

// load decompresses and decodes the full payload once.
func (g *GridFile) load() error {
	g.once.Do(func() {
		compressed, err := os.ReadFile(g.path)
		if err != nil {
			g.loadErr = fmt.Errorf("raster: reading %s: %w", g.path, err)
			return
		}
		raw, err := snappy.Decode(nil, compressed)
		if err != nil {
			g.loadErr = fmt.Errorf("raster: decompressing %s: %w", g.path, err)
			return
		}
		samples, err := g.dtype.Decode(raw)
		if err != nil {
			g.loadErr = fmt.Errorf("raster: decoding %s: %w", g.path, err)
			return
		}
		want := g.meta.Bands * g.meta.Height * g.meta.Width
		if len(samples) != want {
			g.loadErr = fmt.Errorf("raster: %s: payload has %d samples, want %d", g.path, len(samples), want)
			return
		}
		g.samples = samples
	})
	return g.loadErr
}

func (g *GridFile) Read(band, row0, row1, col0, col1 int) (*Band, error) {
	if err := checkWindow(g, band, row0, row1, col0, col1); err != nil {
		return nil, err
	}
	if err := g.load(); err != nil {
		return nil, err
	}

	w := g.meta.Width
	base := (band - 1) * g.meta.Height * w
	out := NewBand(row1-row0, col1-col0)
	for r := row0; r < row1; r++ {
		for c := col0; c < col1; c++ {
			v := g.samples[base+r*w+c]
			i := (r-row0)*out.W + (c - col0)
			out.Data[i] = v
			out.Valid[i] = validSample(v, g.meta.Nodata)
		}
	}
	return out, nil
}

// WriteGridFile writes a payload, its TOML sidecar, and a world file next to
// it. Bands are concatenated band-sequentially in the given dtype.
func WriteGridFile(path string, cfg MemSourceConfig) error {
	if len(cfg.Bands) == 0 {
		return fmt.Errorf("raster: writing %s: no bands", path)
	}

	flat := make([]float64, 0, len(cfg.Bands)*cfg.Height*cfg.Width)
	for _, b := range cfg.Bands {
		if len(b) != cfg.Height*cfg.Width {
			return fmt.Errorf("raster: writing %s: band sample count mismatch", path)
		}
		flat = append(flat, b...)
	}

	if err := os.WriteFile(path, snappy.Encode(nil, cfg.DType.Encode(flat)), 0o644); err != nil {
		return fmt.Errorf("raster: writing %s: %w", path, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "epsg = %d\n", cfg.EPSG)
	fmt.Fprintf(&sb, "width = %d\n", cfg.Width)
	fmt.Fprintf(&sb, "height = %d\n", cfg.Height)
	fmt.Fprintf(&sb, "bands = %d\n", len(cfg.Bands))
	fmt.Fprintf(&sb, "dtype = %q\n", cfg.DType.String())
	fmt.Fprintf(&sb, "nodata = %g\n", cfg.Nodata)
	if err := os.WriteFile(sidecarPath(path, ".toml"), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("raster: writing sidecar for %s: %w", path, err)
	}

	// World file origin is the center of the upper-left pixel.
	a := cfg.Affine
	wld := fmt.Sprintf("%g\n0.0\n0.0\n%g\n%g\n%g\n",
		a.A, a.E, a.C+a.A/2, a.F+a.E/2)
	if err := os.WriteFile(sidecarPath(path, ".wld"), []byte(wld), 0o644); err != nil {
		return fmt.Errorf("raster: writing world file for %s: %w", path, err)
	}
	return nil
}

func sidecarPath(path, ext string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i] + ext
	}
	return path + ext
}
