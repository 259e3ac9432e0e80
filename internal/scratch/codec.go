package scratch

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/georaster/tilewarp/raster"
)

// Payload layout: height and width as uint32, then one validity byte per
// pixel, then the samples as little-endian float64. zstd collapses the
// typically uniform validity run and the nodata stretches.

func encodeBand(b *raster.Band) []byte {
	n := b.H * b.W
	out := make([]byte, 8+n+8*n)
	binary.LittleEndian.PutUint32(out[0:4], uint32(b.H))
	binary.LittleEndian.PutUint32(out[4:8], uint32(b.W))
	for i, v := range b.Valid {
		if v {
			out[8+i] = 1
		}
	}
	off := 8 + n
	for i, v := range b.Data {
		binary.LittleEndian.PutUint64(out[off+8*i:], math.Float64bits(v))
	}
	return out
}

func decodeBand(raw []byte) (*raster.Band, error) {
	if len(raw) < 8 {
		return nil, fmt.Errorf("scratch: truncated payload (%d bytes)", len(raw))
	}
	h := int(binary.LittleEndian.Uint32(raw[0:4]))
	w := int(binary.LittleEndian.Uint32(raw[4:8]))
	n := h * w
	if len(raw) != 8+n+8*n {
		return nil, fmt.Errorf("scratch: payload size %d does not match %dx%d band", len(raw), h, w)
	}

	b := raster.NewBand(h, w)
	for i := 0; i < n; i++ {
		b.Valid[i] = raw[8+i] == 1
	}
	off := 8 + n
	for i := 0; i < n; i++ {
		b.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[off+8*i:]))
	}
	return b, nil
}
