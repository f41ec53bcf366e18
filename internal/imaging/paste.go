package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// pasteMasked draws src onto dst with its top-left corner at at, using the
// source alpha as a mask for all four channels:
//
//	out = src*a + dst*(1-a), a = srcA/255
//
// Alpha is blended like a colour channel, so pasting a canvas onto a fill of
// the same colour and alpha leaves the pixels unchanged. Pixels outside dst
// are clipped.
func pasteMasked(dst *image.NRGBA, src image.Image, at image.Point) {
	s, ok := src.(*image.NRGBA)
	if !ok {
		s = imaging.Clone(src)
	}

	sb := s.Bounds()
	r := sb.Sub(sb.Min).Add(at).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	srcOrigin := sb.Min.Add(r.Min.Sub(at))

	for y := 0; y < r.Dy(); y++ {
		si := s.PixOffset(srcOrigin.X, srcOrigin.Y+y)
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		for x := 0; x < r.Dx(); x++ {
			sp := s.Pix[si : si+4 : si+4]
			dp := dst.Pix[di : di+4 : di+4]
			switch m := uint32(sp[3]); m {
			case 0:
			case 255:
				copy(dp, sp)
			default:
				for c := 0; c < 4; c++ {
					dp[c] = blend(dp[c], sp[c], m)
				}
			}
			si += 4
			di += 4
		}
	}
}

// blend mixes d and s by mask m/255 with rounding.
func blend(d, s uint8, m uint32) uint8 {
	t := uint32(d)*(255-m) + uint32(s)*m + 128
	return uint8((t + t>>8) >> 8)
}
