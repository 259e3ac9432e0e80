// Package scratch is a session-scoped band store that keeps entries in
// memory and spills them to a single temporary file under memory pressure.
// Every artifact it creates is removed on Close.
package scratch

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/georaster/tilewarp/raster"
)

// diskEntry records where a spilled band sits in the temp file.
type diskEntry struct {
	offset int64
	length int32
}

// Store holds zstd-compressed band payloads, first in an in-memory map and,
// once the estimated usage crosses the configured limit, appended to a
// lazily created temp file. Reads check memory first, then the disk index.
// Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	index map[string]diskEntry

	file    *os.File
	fileOff int64
	dir     string

	memBytes atomic.Int64
	memLimit int64

	enc *zstd.Encoder
	dec *zstd.Decoder
	log zerolog.Logger
}

// Config configures a scratch store.
type Config struct {
	// TempDir is the directory for the spill file. Defaults to the OS temp dir.
	TempDir string
	// MemoryLimitBytes is the threshold at which in-memory entries move to
	// disk. 0 disables spilling.
	MemoryLimitBytes int64

	Logger zerolog.Logger
}

// New creates a scratch store. The zstd coders are reused across entries.
func New(cfg Config) (*Store, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("scratch: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("scratch: %w", err)
	}
	dir := cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{
		blobs:    make(map[string][]byte),
		index:    make(map[string]diskEntry),
		dir:      dir,
		memLimit: cfg.MemoryLimitBytes,
		enc:      enc,
		dec:      dec,
		log:      cfg.Logger,
	}, nil
}

// Put stores a compressed copy of the band under key, replacing any previous
// entry. May spill the in-memory set to disk.
func (s *Store) Put(key string, b *raster.Band) {
	blob := s.enc.EncodeAll(encodeBand(b), nil)

	s.mu.Lock()
	if old, ok := s.blobs[key]; ok {
		s.memBytes.Add(-int64(len(old)))
	}
	s.blobs[key] = blob
	delete(s.index, key)
	s.mu.Unlock()

	s.memBytes.Add(int64(len(blob)))
	if s.memLimit > 0 && s.memBytes.Load() > s.memLimit {
		s.flush()
	}
}

// Get retrieves a band previously stored under key. The second return is
// false when the key is absent or the spill file has gone bad.
func (s *Store) Get(key string) (*raster.Band, bool) {
	s.mu.RLock()
	blob, inMem := s.blobs[key]
	de, onDisk := s.index[key]
	f := s.file
	s.mu.RUnlock()

	if !inMem {
		if !onDisk || f == nil {
			return nil, false
		}
		blob = make([]byte, de.length)
		if _, err := f.ReadAt(blob, de.offset); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("scratch read failed")
			return nil, false
		}
	}

	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("scratch entry corrupt")
		return nil, false
	}
	b, err := decodeBand(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("scratch entry corrupt")
		return nil, false
	}
	return b, true
}

// Has reports whether key is stored, without decompressing anything.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, inMem := s.blobs[key]
	_, onDisk := s.index[key]
	return inMem || onDisk
}

// Remove drops the entry for key. Disk space is reclaimed only on Close.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.blobs[key]; ok {
		s.memBytes.Add(-int64(len(old)))
		delete(s.blobs, key)
	}
	delete(s.index, key)
}

// Len returns the number of stored entries, in memory and on disk.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs) + len(s.index)
}

// flush appends all in-memory blobs to the temp file and clears the map.
func (s *Store) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.blobs) == 0 {
		return
	}
	if s.file == nil {
		f, err := os.CreateTemp(s.dir, "tilewarp-scratch-*.tmp")
		if err != nil {
			s.log.Warn().Err(err).Msg("scratch spill file creation failed, keeping entries in memory")
			return
		}
		s.file = f
	}

	spilled := len(s.blobs)
	for key, blob := range s.blobs {
		n, err := s.file.Write(blob)
		if err != nil {
			s.log.Warn().Err(err).Msg("scratch spill write failed")
			return
		}
		s.index[key] = diskEntry{offset: s.fileOff, length: int32(n)}
		s.fileOff += int64(n)
		delete(s.blobs, key)
		s.memBytes.Add(-int64(len(blob)))
	}

	s.log.Debug().Int("entries", spilled).Int64("file_bytes", s.fileOff).Msg("scratch spilled to disk")
}

// Close releases the coders and removes the spill file. The store must not
// be used afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enc.Close()
	s.dec.Close()
	s.blobs = nil
	s.index = nil
	if s.file != nil {
		name := s.file.Name()
		s.file.Close()
		os.Remove(name)
		s.file = nil
	}
}
