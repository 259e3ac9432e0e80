package raster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBandAllInvalid(t *testing.T) {
	b := NewBand(3, 4)
	if !b.AllInvalid() {
		t.Error("new band should be entirely invalid")
	}
	if b.ValidCount() != 0 {
		t.Errorf("ValidCount() = %d, want 0", b.ValidCount())
	}
}

func TestBandSetAt(t *testing.T) {
	b := NewBand(2, 2)
	b.Set(1, 0, 42)

	v, ok := b.At(1, 0)
	if !ok || v != 42 {
		t.Errorf("At(1,0) = (%f, %v), want (42, true)", v, ok)
	}
	if _, ok := b.At(0, 1); ok {
		t.Error("untouched pixel should be invalid")
	}

	b.SetInvalid(1, 0)
	if _, ok := b.At(1, 0); ok {
		t.Error("SetInvalid should clear validity")
	}
}

func TestFillGapsFrom(t *testing.T) {
	dst := NewBand(2, 2)
	dst.Set(0, 0, 1)
	dst.Set(0, 1, 2)

	src := NewFilledBand(2, 2, 9)
	if err := dst.FillGapsFrom(src); err != nil {
		t.Fatal(err)
	}

	want := []float64{1, 2, 9, 9}
	if diff := cmp.Diff(want, dst.Data); diff != "" {
		t.Errorf("merged data mismatch (-want +got):\n%s", diff)
	}
	if dst.ValidCount() != 4 {
		t.Errorf("ValidCount() = %d, want 4", dst.ValidCount())
	}
}

func TestFillGapsFromKeepsExisting(t *testing.T) {
	dst := NewFilledBand(2, 2, 1)
	src := NewFilledBand(2, 2, 9)

	if err := dst.FillGapsFrom(src); err != nil {
		t.Fatal(err)
	}
	for i, v := range dst.Data {
		if v != 1 {
			t.Errorf("pixel %d = %f, want 1 (existing data must win)", i, v)
		}
	}
}

func TestFillGapsFromShapeMismatch(t *testing.T) {
	dst := NewBand(2, 2)
	if err := dst.FillGapsFrom(NewBand(2, 3)); err == nil {
		t.Error("expected shape mismatch error")
	}
}

func TestSummarize(t *testing.T) {
	b := NewBand(2, 3)
	b.Set(0, 0, -5)
	b.Set(1, 2, 17)
	b.Set(0, 2, 3)

	s := b.Summarize()
	if s.Min != -5 || s.Max != 17 || s.ValidCount != 3 {
		t.Errorf("Summarize() = %+v, want {Min:-5 Max:17 ValidCount:3}", s)
	}

	empty := NewBand(1, 1).Summarize()
	if empty.ValidCount != 0 || empty.Min != 0 || empty.Max != 0 {
		t.Errorf("empty Summarize() = %+v, want zeros", empty)
	}
}
