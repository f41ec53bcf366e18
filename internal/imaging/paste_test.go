package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestBlend(t *testing.T) {
	tests := []struct {
		d, s uint8
		m    uint32
		want uint8
	}{
		{0, 255, 255, 255},
		{200, 0, 0, 200},
		{0, 255, 128, 128},
		{200, 128, 128, 164},
		{100, 100, 77, 100},
		{255, 255, 1, 255},
	}
	for _, tt := range tests {
		if got := blend(tt.d, tt.s, tt.m); got != tt.want {
			t.Errorf("blend(%d, %d, %d): got %d, want %d", tt.d, tt.s, tt.m, got, tt.want)
		}
	}
}

func TestPasteMasked_Clips(t *testing.T) {
	dst := imaging.New(6, 6, color.NRGBA{0, 0, 0, 255})
	src := imaging.New(4, 4, color.NRGBA{255, 255, 255, 255})

	pasteMasked(dst, src, image.Pt(4, -2))

	assertNear(t, dst, 4, 0, color.NRGBA{255, 255, 255, 255}, 0)
	assertNear(t, dst, 5, 1, color.NRGBA{255, 255, 255, 255}, 0)
	assertNear(t, dst, 4, 2, color.NRGBA{0, 0, 0, 255}, 0)
	assertNear(t, dst, 3, 0, color.NRGBA{0, 0, 0, 255}, 0)
}

func TestPasteMasked_OffsetSource(t *testing.T) {
	// A sub-image keeps its parent's coordinates; its first pixel must still
	// land at the paste point.
	parent := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	parent.SetNRGBA(5, 5, color.NRGBA{255, 0, 0, 255})
	sub := parent.SubImage(image.Rect(5, 5, 8, 8))

	dst := imaging.New(4, 4, color.NRGBA{0, 0, 0, 0})
	pasteMasked(dst, sub, image.Pt(1, 1))

	assertNear(t, dst, 1, 1, color.NRGBA{255, 0, 0, 255}, 0)
	assertNear(t, dst, 2, 2, color.NRGBA{0, 0, 0, 0}, 0)
}
