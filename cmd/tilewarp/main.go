package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/georaster/tilewarp"
	"github.com/georaster/tilewarp/grid"
	"github.com/georaster/tilewarp/internal/quicklook"
	"github.com/georaster/tilewarp/raster"
)

// Set via -ldflags at build time.
var version = "dev"

// catalog is the TOML source list: one [[source]] block per raster.
type catalog struct {
	Sources []catalogSource `toml:"source"`
}

type catalogSource struct {
	Path string `toml:"path"`
}

func main() {
	var (
		zoom        int
		row         int
		col         int
		pyramidName string
		pixelBuffer int
		resampling  string
		quicklookTo string
		format      string
		quality     int
		verbose     bool
		showVersion bool
	)

	flag.IntVar(&zoom, "zoom", 0, "Tile zoom level")
	flag.IntVar(&row, "row", 0, "Tile row")
	flag.IntVar(&col, "col", 0, "Tile column")
	flag.StringVar(&pyramidName, "pyramid", "geodetic", "Tile pyramid: geodetic, mercator")
	flag.IntVar(&pixelBuffer, "pixelbuffer", 0, "Extra border pixels around the tile")
	flag.StringVar(&resampling, "resampling", "lanczos", "Interpolation: nearest, bilinear, cubic, cubic_spline, lanczos, average, mode")
	flag.StringVar(&quicklookTo, "quicklook", "", "Write a preview image of band 1 to this path")
	flag.StringVar(&format, "format", "png", "Quicklook encoding: png, webp")
	flag.IntVar(&quality, "quality", 85, "Quicklook WebP quality 1-100")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tilewarp [flags] <catalog.toml>\n\n")
		fmt.Fprintf(os.Stderr, "Reads the sources listed in the catalog, acquires the requested tile\n")
		fmt.Fprintf(os.Stderr, "window and reports emptiness and per-band statistics.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("tilewarp %s\n", version)
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := run(flag.Arg(0), tileRequest{
		zoom: zoom, row: row, col: col,
		pyramid:     pyramidName,
		pixelBuffer: pixelBuffer,
		resampling:  resampling,
		quicklookTo: quicklookTo,
		format:      format,
		quality:     quality,
	}, log); err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

type tileRequest struct {
	zoom, row, col int
	pyramid        string
	pixelBuffer    int
	resampling     string
	quicklookTo    string
	format         string
	quality        int
}

func run(catalogPath string, req tileRequest, log zerolog.Logger) error {
	var cat catalog
	if _, err := toml.DecodeFile(catalogPath, &cat); err != nil {
		return fmt.Errorf("catalog %s: %w", catalogPath, err)
	}
	if len(cat.Sources) == 0 {
		return fmt.Errorf("catalog %s lists no sources", catalogPath)
	}

	sources := make([]raster.Source, 0, len(cat.Sources))
	for _, cs := range cat.Sources {
		src, err := raster.OpenGridFile(cs.Path)
		if err != nil {
			return err
		}
		log.Debug().Str("path", cs.Path).Int("epsg", src.EPSG()).Int("bands", src.Bands()).Msg("source opened")
		sources = append(sources, src)
	}

	var pyramid grid.Pyramid
	switch strings.ToLower(req.pyramid) {
	case "geodetic":
		pyramid = grid.GeodeticPyramid()
	case "mercator":
		pyramid = grid.MercatorPyramid()
	default:
		return fmt.Errorf("unknown pyramid %q (geodetic, mercator)", req.pyramid)
	}
	tile, err := pyramid.Tile(req.zoom, req.row, req.col)
	if err != nil {
		return err
	}
	method, err := raster.ParseResampling(req.resampling)
	if err != nil {
		return err
	}

	session, err := tilewarp.Open(tile, sources, tilewarp.Options{
		PixelBuffer: req.pixelBuffer,
		Resampling:  method,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	empty, err := session.IsEmpty()
	if err != nil {
		return err
	}
	h, w := session.Shape()
	fmt.Printf("Tile: %s\n", tile)
	fmt.Printf("Shape: %d x %d (pixelbuffer %d)\n", h, w, req.pixelBuffer)
	fmt.Printf("Bands: %d\n", session.Bands())
	fmt.Printf("Empty: %v\n", empty)
	if empty {
		return nil
	}

	bands, err := session.Read()
	if err != nil {
		return err
	}
	for i, b := range bands {
		stats := b.Summarize()
		fmt.Printf("Band %d: valid=%d/%d min=%f max=%f\n",
			i+1, stats.ValidCount, b.H*b.W, stats.Min, stats.Max)
	}

	if req.quicklookTo != "" {
		img, err := quicklook.Render(bands[0], quicklook.Options{
			Format:  req.format,
			Quality: req.quality,
		})
		if err != nil {
			return err
		}
		if err := os.WriteFile(req.quicklookTo, img, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", req.quicklookTo).Int("bytes", len(img)).Msg("quicklook written")
	}
	return nil
}
