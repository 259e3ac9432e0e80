// Package tilewarp acquires resampled, georeferenced pixel windows for map
// tiles from one or more raster sources. A Session is opened for a (tile,
// sources) pair; reads resolve source windows, warp them onto the tile grid,
// composite overlapping sources by validity mask, and memoize the result per
// band for the session's lifetime.
package tilewarp

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/georaster/tilewarp/coord"
	"github.com/georaster/tilewarp/grid"
	"github.com/georaster/tilewarp/internal/scratch"
	"github.com/georaster/tilewarp/internal/warp"
	"github.com/georaster/tilewarp/internal/window"
	"github.com/georaster/tilewarp/raster"
)

// Options configures a session. The zero value selects nearest resampling,
// no pixel buffer, and no logging.
type Options struct {
	// PixelBuffer adds extra border pixels around the tile extent so
	// neighborhood-dependent processing downstream has no edge artifacts.
	PixelBuffer int

	// Resampling selects the warp interpolation. Use raster.Lanczos for
	// continuous data, raster.Nearest for categorical.
	Resampling raster.Resampling

	// ScratchDir and ScratchMemoryLimit control where per-group mosaic
	// intermediates spill under memory pressure. Zero limit keeps them in
	// memory.
	ScratchDir         string
	ScratchMemoryLimit int64

	Logger zerolog.Logger
}

// Session serves band reads for one tile. It caches each band after its
// first read, so at most one read/warp pass happens per band. A session is
// meant for a single logical caller; concurrent consumers of the same tile
// should open independent sessions.
type Session struct {
	tile    grid.Tile
	sources []raster.Source
	groups  []sourceGroup
	opts    Options

	height, width int
	bounds        orb.Bound
	dstAffine     grid.Affine
	dstProj       coord.Projection

	intersects bool // some source footprint touches the tile

	bands   int
	cache   map[int]*raster.Band
	scratch *scratch.Store
	log     zerolog.Logger
	closed  bool
}

// Open validates parameters eagerly and prepares a session. No source pixel
// is read here; only footprints are projected for the emptiness short
// circuit. The caller must Close the session to release cached bands and
// scratch artifacts.
func Open(tile grid.Tile, sources []raster.Source, opts Options) (*Session, error) {
	if len(sources) == 0 {
		return nil, invalidParam("sources", "at least one source required")
	}
	if opts.PixelBuffer < 0 {
		return nil, invalidParam("pixelbuffer", "must be non-negative, got %d", opts.PixelBuffer)
	}
	if opts.Resampling < raster.Nearest || opts.Resampling > raster.Mode {
		return nil, invalidParam("resampling", "unknown method %d", int(opts.Resampling))
	}
	dstProj := coord.ForEPSG(tile.EPSG())
	if dstProj == nil {
		return nil, invalidParam("tile", "unsupported reference system EPSG:%d", tile.EPSG())
	}
	for _, src := range sources {
		if coord.ForEPSG(src.EPSG()) == nil {
			return nil, invalidParam("sources", "source %s: unsupported reference system EPSG:%d", src.Name(), src.EPSG())
		}
		if src.Bands() < 1 {
			return nil, invalidParam("sources", "source %s has no bands", src.Name())
		}
	}

	store, err := scratch.New(scratch.Config{
		TempDir:          opts.ScratchDir,
		MemoryLimitBytes: opts.ScratchMemoryLimit,
		Logger:           opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("tilewarp: %w", err)
	}

	s := &Session{
		tile:      tile,
		sources:   sources,
		groups:    groupSources(sources),
		opts:      opts,
		bounds:    tile.Bounds(opts.PixelBuffer),
		dstAffine: tile.Affine(opts.PixelBuffer),
		dstProj:   dstProj,
		cache:     make(map[int]*raster.Band),
		scratch:   store,
		log:       opts.Logger,
	}
	s.height, s.width = tile.Shape(opts.PixelBuffer)

	for _, src := range sources {
		if src.Bands() > s.bands {
			s.bands = src.Bands()
		}
		fp := coord.TransformBound(raster.Footprint(src), coord.ForEPSG(src.EPSG()), dstProj)
		if fp.Intersects(s.bounds) {
			s.intersects = true
		}
	}

	s.log.Debug().
		Stringer("tile", tile).
		Int("sources", len(sources)).
		Int("groups", len(s.groups)).
		Bool("intersects", s.intersects).
		Msg("session opened")
	return s, nil
}

// Bands returns the number of addressable bands, the maximum band count over
// all sources. Band indexes are 1-based.
func (s *Session) Bands() int { return s.bands }

// Shape returns the output pixel shape, pixel buffer included.
func (s *Session) Shape() (h, w int) { return s.height, s.width }

// Read returns the requested bands in request order. With no arguments it
// returns all bands 1..Bands(). Repeated reads of a band return the cached
// array; callers must not mutate the result.
func (s *Session) Read(indexes ...int) ([]*raster.Band, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	indexes, err := s.bandIndexes(indexes)
	if err != nil {
		return nil, err
	}
	out := make([]*raster.Band, len(indexes))
	for i, idx := range indexes {
		b, err := s.band(idx)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// ReadBand returns a single band.
func (s *Session) ReadBand(index int) (*raster.Band, error) {
	bands, err := s.Read(index)
	if err != nil {
		return nil, err
	}
	return bands[0], nil
}

// IsEmpty reports whether the requested bands hold no valid pixel. It short
// circuits without any pixel I/O when the tile is disjoint from every source
// footprint; otherwise it consults the band cache.
func (s *Session) IsEmpty(indexes ...int) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	indexes, err := s.bandIndexes(indexes)
	if err != nil {
		return false, err
	}

	if !s.intersects {
		return true, nil
	}
	// Footprints are bounding boxes, so they can touch or overlap where no
	// readable pixel window exists. Resolving windows is still metadata-only:
	// no pixel is read.
	usable := false
	for _, src := range s.sources {
		srcBounds := coord.TransformBound(s.bounds, s.dstProj, coord.ForEPSG(src.EPSG()))
		srcH, srcW := src.Shape()
		if _, ok := window.Resolve(srcBounds, src.Affine(), srcH, srcW); ok {
			usable = true
			break
		}
	}
	if !usable {
		return true, nil
	}

	for _, idx := range indexes {
		b, err := s.band(idx)
		if err != nil {
			return false, err
		}
		if !b.AllInvalid() {
			return false, nil
		}
	}
	return true, nil
}

// Close releases cached bands and removes scratch artifacts. Further reads
// return ErrSessionClosed. Close is idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cache = nil
	s.scratch.Close()
	s.log.Debug().Stringer("tile", s.tile).Msg("session closed")
}

// bandIndexes validates explicit indexes or expands the default all-bands
// request.
func (s *Session) bandIndexes(indexes []int) ([]int, error) {
	if len(indexes) == 0 {
		all := make([]int, s.bands)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}
	for _, idx := range indexes {
		if idx < 1 || idx > s.bands {
			return nil, invalidParam("band", "index %d out of range [1, %d]", idx, s.bands)
		}
	}
	return indexes, nil
}

// band returns the cached array for a band, computing it on first access.
func (s *Session) band(index int) (*raster.Band, error) {
	if b, ok := s.cache[index]; ok {
		return b, nil
	}

	out := raster.NewBand(s.height, s.width)
	if s.intersects {
		for gi, g := range s.groups {
			gb := s.groupBand(gi, g, index)
			if err := out.FillGapsFrom(gb); err != nil {
				return nil, fmt.Errorf("tilewarp: band %d: %w", index, err)
			}
		}
	}
	s.cache[index] = out
	return out, nil
}

// groupBand mosaics one reference-system group onto the tile grid. Members
// merge in list order with first-valid-wins semantics. Warped member arrays
// are staged in the scratch store and removed once consumed, so a failed or
// empty member degrades to an all-invalid contribution instead of aborting
// the session.
func (s *Session) groupBand(gi int, g sourceGroup, index int) *raster.Band {
	keys := make([]string, 0, len(g.members))
	for mi, m := range g.members {
		key := fmt.Sprintf("g%d:m%d:b%d", gi, mi, index)
		s.scratch.Put(key, s.memberBand(m, index))
		keys = append(keys, key)
	}

	out := raster.NewBand(s.height, s.width)
	for _, key := range keys {
		b, ok := s.scratch.Get(key)
		s.scratch.Remove(key)
		if !ok {
			s.log.Warn().Str("key", key).Msg("mosaic intermediate lost, member degraded to nodata")
			continue
		}
		if err := out.FillGapsFrom(b); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("mosaic merge failed, member degraded to nodata")
		}
	}
	return out
}

// memberBand resolves, reads, pads and warps one source's contribution.
// Every failure past parameter validation degrades to an all-invalid band at
// the tile shape, logged at warn level, so one bad member cannot poison the
// session.
func (s *Session) memberBand(src raster.Source, index int) *raster.Band {
	empty := func() *raster.Band { return raster.NewBand(s.height, s.width) }

	if index > src.Bands() {
		return empty()
	}

	srcProj := coord.ForEPSG(src.EPSG())
	srcBounds := coord.TransformBound(s.bounds, s.dstProj, srcProj)
	srcH, srcW := src.Shape()
	win, ok := window.Resolve(srcBounds, src.Affine(), srcH, srcW)
	if !ok {
		return empty()
	}

	read, err := src.Read(index, win.Row0, win.Row1, win.Col0, win.Col1)
	if err != nil {
		s.log.Warn().Err(err).Str("source", src.Name()).Int("band", index).Msg("window read failed, degraded to nodata")
		return empty()
	}
	padded := warp.Pad(read, win.Top, win.Bottom, win.Left, win.Right)

	warped, err := warp.Warp(padded, warp.Params{
		SrcAffine: win.Affine(src.Affine()),
		SrcProj:   srcProj,
		DstAffine: s.dstAffine,
		DstProj:   s.dstProj,
		DstHeight: s.height,
		DstWidth:  s.width,
		Method:    s.opts.Resampling,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("source", src.Name()).Int("band", index).Msg("warp failed, degraded to nodata")
		return empty()
	}
	return warped
}
