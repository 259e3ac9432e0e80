package raster

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DType identifies the storage type of source samples. The engine processes
// everything as float64; DType governs how raw payload bytes are decoded and
// how large a source is on disk.
type DType int

const (
	Uint8 DType = iota
	Int16
	Uint16
	Int32
	Float32
	Float64
)

var dtypeNames = map[DType]string{
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Float32: "float32",
	Float64: "float64",
}

// ParseDType maps a type name to its DType.
func ParseDType(s string) (DType, error) {
	for d, name := range dtypeNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("raster: unknown dtype %q", s)
}

func (d DType) String() string {
	if s, ok := dtypeNames[d]; ok {
		return s
	}
	return fmt.Sprintf("dtype(%d)", int(d))
}

// Size returns the sample width in bytes.
func (d DType) Size() int {
	switch d {
	case Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Float32:
		return 4
	default:
		return 8
	}
}

// Decode converts little-endian raw samples to float64. len(raw) must be a
// multiple of the sample size.
func (d DType) Decode(raw []byte) ([]float64, error) {
	size := d.Size()
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("raster: %d payload bytes not a multiple of %s sample size", len(raw), d)
	}
	n := len(raw) / size
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		off := i * size
		switch d {
		case Uint8:
			out[i] = float64(raw[off])
		case Int16:
			out[i] = float64(int16(binary.LittleEndian.Uint16(raw[off:])))
		case Uint16:
			out[i] = float64(binary.LittleEndian.Uint16(raw[off:]))
		case Int32:
			out[i] = float64(int32(binary.LittleEndian.Uint32(raw[off:])))
		case Float32:
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[off:])))
		default:
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
		}
	}
	return out, nil
}

// Encode converts float64 samples to little-endian raw bytes, truncating
// toward zero for integral types.
func (d DType) Encode(vals []float64) []byte {
	size := d.Size()
	out := make([]byte, len(vals)*size)
	for i, v := range vals {
		off := i * size
		switch d {
		case Uint8:
			out[off] = uint8(v)
		case Int16:
			binary.LittleEndian.PutUint16(out[off:], uint16(int16(v)))
		case Uint16:
			binary.LittleEndian.PutUint16(out[off:], uint16(v))
		case Int32:
			binary.LittleEndian.PutUint32(out[off:], uint32(int32(v)))
		case Float32:
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(float32(v)))
		default:
			binary.LittleEndian.PutUint64(out[off:], math.Float64bits(v))
		}
	}
	return out
}
