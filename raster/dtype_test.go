package raster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDType(t *testing.T) {
	for _, name := range []string{"uint8", "int16", "uint16", "int32", "float32", "float64"} {
		d, err := ParseDType(name)
		if err != nil {
			t.Fatalf("ParseDType(%q): %v", name, err)
		}
		if d.String() != name {
			t.Errorf("ParseDType(%q).String() = %q", name, d.String())
		}
	}

	if _, err := ParseDType("complex64"); err == nil {
		t.Error("expected error for unsupported dtype")
	}
}

func TestDTypeEncodeDecode(t *testing.T) {
	cases := []struct {
		dtype DType
		vals  []float64
	}{
		{Uint8, []float64{0, 1, 255}},
		{Int16, []float64{-1, -32768, 32767, 0}},
		{Uint16, []float64{0, 65535, 12}},
		{Int32, []float64{-100000, 100000}},
		{Float32, []float64{0.5, -2.25, 1024}},
		{Float64, []float64{3.141592653589793, -1e-12}},
	}

	for _, tc := range cases {
		raw := tc.dtype.Encode(tc.vals)
		if len(raw) != len(tc.vals)*tc.dtype.Size() {
			t.Errorf("%s: encoded %d bytes, want %d", tc.dtype, len(raw), len(tc.vals)*tc.dtype.Size())
		}
		got, err := tc.dtype.Decode(raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.dtype, err)
		}
		if diff := cmp.Diff(tc.vals, got); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", tc.dtype, diff)
		}
	}
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	if _, err := Int16.Decode([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for odd byte count")
	}
}
