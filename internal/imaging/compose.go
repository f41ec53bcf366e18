package imaging

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
	"github.com/ironsheep/icon-backdrop/internal/layout"
)

// CanvasOptions controls how icons are composed onto the canvas.
type CanvasOptions struct {
	// Background fills the canvas, alpha included.
	Background color.NRGBA

	// Progress, if set, is called before each icon is drawn.
	Progress func(index int, icon IconInfo)
}

// Compose draws every placement of plan onto a fresh canvas.
//
// Parameters:
//   - ctx: Checked before each icon; cancellation aborts with ctx.Err().
//   - plan: Grid plan; its canvas size becomes the output size.
//   - icons: Icons in plan order. Placement i uses icons[i].
//   - opts: Background fill and optional progress callback.
//
// Returns:
//   - *image.NRGBA: The composed canvas. It is not shared with anything else.
//   - error: EMPTY_INPUT when icons is empty, INTERNAL when icons and plan
//     disagree, IO when an icon cannot be decoded.
//
// # Compositing
//
// Each icon is decoded and resized to the planned square size with a Lanczos
// filter, which yields 4-channel NRGBA whatever the source format. The tile
// is pasted at the truncated placement point with its own alpha as the mask
// for all four channels, so transparent icon pixels leave the background
// untouched. Only one decoded icon is held at a time.
func Compose(ctx context.Context, plan *layout.GridPlan, icons []IconInfo, opts CanvasOptions) (*image.NRGBA, error) {
	if len(icons) == 0 {
		return nil, bderrors.New(bderrors.ErrCodeEmptyInput, "no icons to compose")
	}
	if plan == nil {
		return nil, bderrors.New(bderrors.ErrCodeInternal, "nil grid plan")
	}
	if len(plan.Placements) > len(icons) {
		return nil, bderrors.New(bderrors.ErrCodeInternal,
			"plan has %d placements but only %d icons", len(plan.Placements), len(icons))
	}

	canvas := Blank(plan, opts.Background)
	for _, p := range plan.Placements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		icon := icons[p.Index]
		if opts.Progress != nil {
			opts.Progress(p.Index, icon)
		}

		tile, err := renderIcon(icon.Path, p.PixelSize())
		if err != nil {
			return nil, err
		}
		pasteMasked(canvas, tile, p.Point())
	}
	return canvas, nil
}

// Blank returns an empty canvas of the plan's size filled with bg.
func Blank(plan *layout.GridPlan, bg color.NRGBA) *image.NRGBA {
	return imaging.New(plan.CanvasWidth, plan.CanvasHeight, bg)
}

// renderIcon decodes the icon and returns it as a size x size tile.
func renderIcon(path string, size int) (*image.NRGBA, error) {
	if size < 1 {
		return nil, bderrors.New(bderrors.ErrCodeInternal, "icon size %d for %s", size, path)
	}
	src, err := OpenIcon(path)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(src, size, size, imaging.Lanczos), nil
}

// Pad returns a new canvas factor times larger in each dimension with the
// source centred on it.
//
// The new size is int(width*factor) x int(height*factor) and the source is
// drawn at ((newW-width)/2, (newH-height)/2), truncating, using its own
// alpha as the mask for all four channels. A source matching fill therefore
// leaves no seam at its border. A factor below 1 is a CONFIG error.
func Pad(canvas image.Image, factor float64, fill color.Color) (*image.NRGBA, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 1 {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "padding factor %v must be at least 1", factor)
	}

	b := canvas.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)

	padded := imaging.New(w, h, fill)
	offset := image.Pt((w-b.Dx())/2, (h-b.Dy())/2)
	pasteMasked(padded, canvas, offset)
	return padded, nil
}
