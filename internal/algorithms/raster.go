package algorithms

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// bgrRaster is a pixel view over a continuous 8-bit BGR mat.
type bgrRaster struct {
	pix    []uint8
	width  int
	height int
}

func newRaster(m gocv.Mat) (bgrRaster, error) {
	if m.Type() != gocv.MatTypeCV8UC3 {
		return bgrRaster{}, fmt.Errorf("expected 8-bit BGR image, got type %v", m.Type())
	}
	pix, err := m.DataPtrUint8()
	if err != nil {
		return bgrRaster{}, err
	}
	return bgrRaster{pix: pix, width: m.Cols(), height: m.Rows()}, nil
}

// at returns the pixel nearest to (x, y), clamped to the image.
func (r bgrRaster) at(x, y int) (b, g, rd uint8) {
	x = clampInt(x, 0, r.width-1)
	y = clampInt(y, 0, r.height-1)
	i := (y*r.width + x) * 3
	return r.pix[i], r.pix[i+1], r.pix[i+2]
}

func (r bgrRaster) set(x, y int, b, g, rd uint8) {
	i := (y*r.width + x) * 3
	r.pix[i] = b
	r.pix[i+1] = g
	r.pix[i+2] = rd
}

// continuous returns m itself when its pixels are contiguous, otherwise a
// compact copy. The bool reports whether the caller must close the result.
func continuous(m gocv.Mat) (gocv.Mat, bool) {
	if m.IsContinuous() {
		return m, false
	}
	return m.Clone(), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// jitter returns a deterministic pair in [0,1) for grid cell (gx, gy).
func jitter(gx, gy int) (float64, float64) {
	h := uint64(int64(gx))*0x9E3779B97F4A7C15 ^ uint64(int64(gy))*0xC2B2AE3D27D4EB4F
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return float64(h&0xFFFFFFFF) / (1 << 32), float64(h>>32) / (1 << 32)
}
