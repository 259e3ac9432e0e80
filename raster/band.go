package raster

import "fmt"

// Band is a 2-D grid of float64 samples plus a per-pixel validity mask.
// Data and Valid are row-major with length H*W. A pixel whose Valid entry is
// false carries no measurement; its Data value is meaningless.
type Band struct {
	H, W  int
	Data  []float64
	Valid []bool
}

// NewBand returns an all-invalid band of the given shape.
func NewBand(h, w int) *Band {
	return &Band{
		H: h, W: w,
		Data:  make([]float64, h*w),
		Valid: make([]bool, h*w),
	}
}

// NewFilledBand returns an all-valid band with every sample set to v.
func NewFilledBand(h, w int, v float64) *Band {
	b := NewBand(h, w)
	for i := range b.Data {
		b.Data[i] = v
		b.Valid[i] = true
	}
	return b
}

// At returns the sample and validity at (row, col).
func (b *Band) At(row, col int) (float64, bool) {
	i := row*b.W + col
	return b.Data[i], b.Valid[i]
}

// Set stores a valid sample at (row, col).
func (b *Band) Set(row, col int, v float64) {
	i := row*b.W + col
	b.Data[i] = v
	b.Valid[i] = true
}

// SetInvalid marks the pixel at (row, col) as carrying no data.
func (b *Band) SetInvalid(row, col int) {
	i := row*b.W + col
	b.Data[i] = 0
	b.Valid[i] = false
}

// AllInvalid reports whether no pixel carries data.
func (b *Band) AllInvalid() bool {
	for _, v := range b.Valid {
		if v {
			return false
		}
	}
	return true
}

// ValidCount returns the number of pixels carrying data.
func (b *Band) ValidCount() int {
	n := 0
	for _, v := range b.Valid {
		if v {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (b *Band) Clone() *Band {
	out := &Band{
		H: b.H, W: b.W,
		Data:  make([]float64, len(b.Data)),
		Valid: make([]bool, len(b.Valid)),
	}
	copy(out.Data, b.Data)
	copy(out.Valid, b.Valid)
	return out
}

// FillGapsFrom copies other's samples into pixels that are still invalid in b.
// Pixels already valid in b are untouched: b wins, other fills gaps. This is
// the mask-priority merge primitive used for both in-group mosaicking and
// cross-group compositing.
func (b *Band) FillGapsFrom(other *Band) error {
	if other.H != b.H || other.W != b.W {
		return fmt.Errorf("raster: merge shape mismatch: %dx%d vs %dx%d", b.H, b.W, other.H, other.W)
	}
	for i, ok := range b.Valid {
		if !ok && other.Valid[i] {
			b.Data[i] = other.Data[i]
			b.Valid[i] = true
		}
	}
	return nil
}

// Stats summarizes the valid samples of a band.
type Stats struct {
	Min, Max   float64
	ValidCount int
}

// Summarize computes min/max over the valid pixels. Min and Max are zero when
// no pixel is valid.
func (b *Band) Summarize() Stats {
	var s Stats
	first := true
	for i, ok := range b.Valid {
		if !ok {
			continue
		}
		v := b.Data[i]
		if first {
			s.Min, s.Max = v, v
			first = false
		} else {
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.ValidCount++
	}
	return s
}
