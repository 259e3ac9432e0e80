package grid

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseWorldFile reads an ESRI world file (six plain-text lines) and returns
// the corresponding pixel-to-CRS transform.
//
// Line 1: pixel width (x-component of pixel size)
// Line 2: rotation about y-axis (typically 0)
// Line 3: rotation about x-axis (typically 0)
// Line 4: pixel height (y-component, negative for north-up)
// Line 5: x-coordinate of the center of the upper-left pixel
// Line 6: y-coordinate of the center of the upper-left pixel
//
// The world-file origin is the center of the upper-left pixel; the returned
// Affine uses the corner convention the rest of the engine expects.
func ParseWorldFile(path string) (Affine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Affine{}, fmt.Errorf("reading world file %s: %w", path, err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 6 {
		return Affine{}, fmt.Errorf("world file %s: expected 6 lines, got %d", path, len(lines))
	}

	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(lines[i]), 64)
		if err != nil {
			return Affine{}, fmt.Errorf("world file %s line %d: %w", path, i+1, err)
		}
		vals[i] = v
	}

	if vals[1] != 0 || vals[2] != 0 {
		return Affine{}, fmt.Errorf("world file %s: rotated grids are not supported (rotation: %f, %f)",
			path, vals[2], vals[1])
	}

	psx := vals[0]
	psy := vals[3]
	return Affine{
		A: psx, C: vals[4] - psx/2,
		E: psy, F: vals[5] - psy/2,
	}, nil
}

// FindWorldFile looks for a world-file sidecar alongside the given raster
// path. Checks extensions: .wld, .tfw, .tifw and their upper-case variants.
func FindWorldFile(rasterPath string) string {
	ext := filepath.Ext(rasterPath)
	base := rasterPath[:len(rasterPath)-len(ext)]

	candidates := []string{".wld", ".WLD", ".tfw", ".TFW", ".tifw", ".TIFW"}
	for _, c := range candidates {
		p := base + c
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
