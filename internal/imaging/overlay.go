package imaging

import (
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/icon-backdrop/internal/layout"
)

// OverlayPlan returns a copy of canvas with every placement of plan drawn as
// a one-pixel square outline labelled with its index. It is used to check a
// layout before rendering the icons.
func OverlayPlan(canvas image.Image, plan *layout.GridPlan, outline color.Color) *image.NRGBA {
	result := imaging.Clone(canvas)
	if plan == nil {
		return result
	}

	fg := color.NRGBAModel.Convert(outline).(color.NRGBA)
	labelFg := color.NRGBA{255, 255, 255, 255}
	labelBg := color.NRGBA{0, 0, 0, 180}

	for _, p := range plan.Placements {
		pt := p.Point()
		size := p.PixelSize()
		drawSquare(result, pt.X, pt.Y, size, fg)
		drawLabel(result, pt.X+2, pt.Y+2, strconv.Itoa(p.Index), labelFg, labelBg)
	}
	return result
}

func drawSquare(img *image.NRGBA, x, y, size int, c color.NRGBA) {
	if size < 1 {
		return
	}
	last := size - 1
	for i := 0; i < size; i++ {
		setClipped(img, x+i, y, c)
		setClipped(img, x+i, y+last, c)
		setClipped(img, x, y+i, c)
		setClipped(img, x+last, y+i, c)
	}
}

func setClipped(img *image.NRGBA, x, y int, c color.NRGBA) {
	if (image.Point{x, y}).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}

// Simple 3x5 pixel font for digits
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws text at (x, y) on a filled box, clipped to the image.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	const (
		charWidth   = 4
		labelHeight = 7
	)
	labelWidth := len(text) * charWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setClipped(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					setClipped(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
