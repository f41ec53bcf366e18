package warp

import (
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// DefaultDownscaleFactor is applied when Options.DownscaleFactor is zero.
const DefaultDownscaleFactor = 0.50

// Options controls a warp.
type Options struct {
	// AngleDegrees rotates the canvas about its centre.
	AngleDegrees float64

	// SkewFactor sets the strength of the perspective tilt. Zero disables it.
	SkewFactor float64

	// DownscaleFactor scales both dimensions before warping. Must be in
	// (0, 1]; zero means DefaultDownscaleFactor.
	DownscaleFactor float64
}

func (o Options) downscale() (float64, error) {
	d := o.DownscaleFactor
	if d == 0 {
		d = DefaultDownscaleFactor
	}
	if math.IsNaN(d) || d <= 0 || d > 1 {
		return 0, bderrors.New(bderrors.ErrCodeConfig, "downscale factor %v must be in (0, 1]", o.DownscaleFactor)
	}
	return d, nil
}

// Warp downscales canvas, rotates it about its centre and applies a
// perspective tilt. The input is not modified.
//
// Returns a CONFIG error for an invalid downscale factor or when the
// downscaled image would have no pixels.
func Warp(canvas image.Image, opts Options) (*image.NRGBA, error) {
	d, err := opts.downscale()
	if err != nil {
		return nil, err
	}

	b := canvas.Bounds()
	w := int(float64(b.Dx()) * d)
	h := int(float64(b.Dy()) * d)
	if w < 1 || h < 1 {
		return nil, bderrors.New(bderrors.ErrCodeConfig,
			"%dx%d canvas downscales to nothing at factor %v", b.Dx(), b.Dy(), d)
	}

	small := clone.AsRGBA(imaging.Resize(canvas, w, h, imaging.Lanczos))

	rotated, err := rotate(small, opts.AngleDegrees)
	if err != nil {
		return nil, err
	}
	tilted, err := tilt(rotated, opts.SkewFactor)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(tilted), nil
}

// Rotate returns img rotated by angleDegrees about its centre, keeping its
// size. Corners with no source content become transparent.
func Rotate(img image.Image, angleDegrees float64) (*image.NRGBA, error) {
	out, err := rotate(clone.AsRGBA(img), angleDegrees)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(out), nil
}

// Perspective returns img with a one-point perspective tilt of strength
// skew, keeping its size.
func Perspective(img image.Image, skew float64) (*image.NRGBA, error) {
	out, err := tilt(clone.AsRGBA(img), skew)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(out), nil
}

func rotate(src *image.RGBA, angleDegrees float64) (*image.RGBA, error) {
	if math.IsNaN(angleDegrees) || math.IsInf(angleDegrees, 0) {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "rotation angle %v is not finite", angleDegrees)
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if angleDegrees == 0 {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst, nil
	}

	s2d, err := sourceToDest(rotationMatrix(angleDegrees, b.Dx(), b.Dy()))
	if err != nil {
		return nil, err
	}
	// The matrices work in image-local coordinates.
	s2d[2] -= s2d[0]*float64(b.Min.X) + s2d[1]*float64(b.Min.Y)
	s2d[5] -= s2d[3]*float64(b.Min.X) + s2d[4]*float64(b.Min.Y)

	xdraw.CatmullRom.Transform(dst, s2d, src, b, xdraw.Src, nil)
	return dst, nil
}

func tilt(src *image.RGBA, skew float64) (*image.RGBA, error) {
	if math.IsNaN(skew) || math.IsInf(skew, 0) {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "skew factor %v is not finite", skew)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if skew == 0 {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst, nil
	}

	hm, err := newHomography(perspectiveMatrix(skew, w, h))
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy, ok := hm.apply(float64(x)+0.5, float64(y)+0.5)
			if !ok {
				continue
			}
			p := sampleBicubic(src, sx, sy)
			off := dst.PixOffset(x, y)
			copy(dst.Pix[off:off+4], p[:])
		}
	}
	return dst, nil
}
