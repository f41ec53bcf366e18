package warp

import (
	"image"
	"math"
)

// catmullRomA is the cubic convolution parameter shared with
// golang.org/x/image/draw.CatmullRom.
const catmullRomA = -0.5

// cubicWeight is the Catmull-Rom kernel evaluated at distance t.
func cubicWeight(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return ((catmullRomA+2)*t-(catmullRomA+3))*t*t + 1
	case t < 2:
		return ((catmullRomA*t-5*catmullRomA)*t+8*catmullRomA)*t - 4*catmullRomA
	}
	return 0
}

// sampleBicubic interpolates src at the continuous position (x, y), where
// pixel (i, j) has its centre at (i+0.5, j+0.5). Positions outside the
// image yield transparent black. Neighbours past the edge are clamped.
func sampleBicubic(src *image.RGBA, x, y float64) [4]uint8 {
	b := src.Bounds()
	if x < 0 || y < 0 || x >= float64(b.Dx()) || y >= float64(b.Dy()) || math.IsNaN(x) || math.IsNaN(y) {
		return [4]uint8{}
	}

	fx, fy := x-0.5, y-0.5
	ix, iy := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-ix, fy-iy

	var wx, wy [4]float64
	for k := 0; k < 4; k++ {
		wx[k] = cubicWeight(dx - float64(k-1))
		wy[k] = cubicWeight(dy - float64(k-1))
	}

	var acc [4]float64
	for j := 0; j < 4; j++ {
		row := clampInt(int(iy)+j-1, 0, b.Dy()-1)
		var racc [4]float64
		for i := 0; i < 4; i++ {
			col := clampInt(int(ix)+i-1, 0, b.Dx()-1)
			off := src.PixOffset(b.Min.X+col, b.Min.Y+row)
			p := src.Pix[off : off+4 : off+4]
			for c := 0; c < 4; c++ {
				racc[c] += wx[i] * float64(p[c])
			}
		}
		for c := 0; c < 4; c++ {
			acc[c] += wy[j] * racc[c]
		}
	}

	// Premultiplied: colour channels may not exceed alpha.
	var out [4]uint8
	out[3] = clampUint8(acc[3])
	for c := 0; c < 3; c++ {
		v := clampUint8(acc[c])
		if v > out[3] {
			v = out[3]
		}
		out[c] = v
	}
	return out
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

func clampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
