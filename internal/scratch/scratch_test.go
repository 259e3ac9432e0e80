package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/georaster/tilewarp/raster"
)

func testBand(seed float64) *raster.Band {
	b := raster.NewBand(4, 4)
	for i := range b.Data {
		b.Data[i] = seed + float64(i)
		b.Valid[i] = i%5 != 0
	}
	return b
}

func newTestStore(t *testing.T, limit int64) *Store {
	t.Helper()
	s, err := New(Config{TempDir: t.TempDir(), MemoryLimitBytes: limit, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t, 0)

	want := testBand(10)
	s.Put("dem:1", want)

	got, ok := s.Get("dem:1")
	if !ok {
		t.Fatal("entry missing after Put")
	}
	if diff := cmp.Diff(want.Data, got.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Valid, got.Valid); diff != "" {
		t.Errorf("mask mismatch (-want +got):\n%s", diff)
	}

	if _, ok := s.Get("dem:2"); ok {
		t.Error("unknown key should miss")
	}
}

func TestStoreReplaceAndRemove(t *testing.T) {
	s := newTestStore(t, 0)

	s.Put("k", testBand(1))
	s.Put("k", testBand(2))
	got, ok := s.Get("k")
	if !ok || got.Data[0] != 2 {
		t.Errorf("replaced entry = %v (ok %v), want seed 2", got.Data[0], ok)
	}

	s.Remove("k")
	if s.Has("k") || s.Len() != 0 {
		t.Error("entry survived Remove")
	}
}

func TestStoreSpillsAndReadsBack(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{TempDir: dir, MemoryLimitBytes: 1, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	bands := make(map[string]*raster.Band)
	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("src:%d", i)
		bands[key] = testBand(float64(i * 100))
		s.Put(key, bands[key])
	}

	// With a 1-byte limit every Put flushes, so the entries live on disk.
	matches, _ := filepath.Glob(filepath.Join(dir, "tilewarp-scratch-*.tmp"))
	if len(matches) != 1 {
		t.Fatalf("spill files = %d, want 1", len(matches))
	}

	for key, want := range bands {
		got, ok := s.Get(key)
		if !ok {
			t.Fatalf("spilled entry %q missing", key)
		}
		if diff := cmp.Diff(want.Data, got.Data); diff != "" {
			t.Errorf("%s data mismatch (-want +got):\n%s", key, diff)
		}
	}
}

func TestStoreCloseRemovesSpillFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{TempDir: dir, MemoryLimitBytes: 1, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	s.Put("a", testBand(0))
	s.Put("b", testBand(1))

	matches, _ := filepath.Glob(filepath.Join(dir, "tilewarp-scratch-*.tmp"))
	if len(matches) == 0 {
		t.Fatal("expected a spill file before Close")
	}
	s.Close()
	if _, err := os.Stat(matches[0]); !os.IsNotExist(err) {
		t.Errorf("spill file still present after Close: %v", err)
	}
}

func TestCodecRejectsCorrupt(t *testing.T) {
	if _, err := decodeBand([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated payload")
	}
	raw := encodeBand(testBand(0))
	if _, err := decodeBand(raw[:len(raw)-4]); err == nil {
		t.Error("expected error for size mismatch")
	}
}
