package warp

import (
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// rotationMatrix returns the output-to-source rotation about the centre of
// a w x h image.
func rotationMatrix(angleDegrees float64, w, h int) *mat.Dense {
	theta := angleDegrees * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	cx, cy := float64(w)/2, float64(h)/2

	tx := cx*(1-cos) + cy*sin
	ty := cy*(1-cos) - cx*sin

	return mat.NewDense(3, 3, []float64{
		cos, -sin, tx,
		sin, cos, ty,
		0, 0, 1,
	})
}

// perspectiveMatrix returns the output-to-source homography for a tilt of
// skew on a w x h image.
func perspectiveMatrix(skew float64, w, h int) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, skew, -float64(w) * skew,
		0, 1, -float64(h) * skew,
		0, skew, 1,
	})
}

// sourceToDest inverts an affine output-to-source matrix into the
// source-to-destination form expected by golang.org/x/image/draw.
func sourceToDest(d2s *mat.Dense) (f64.Aff3, error) {
	var s2d mat.Dense
	if err := s2d.Inverse(d2s); err != nil {
		return f64.Aff3{}, bderrors.Wrap(bderrors.ErrCodeInternal, err, "invert rotation matrix")
	}
	return f64.Aff3{
		s2d.At(0, 0), s2d.At(0, 1), s2d.At(0, 2),
		s2d.At(1, 0), s2d.At(1, 1), s2d.At(1, 2),
	}, nil
}

// homography is a row-major 3x3 projective map.
type homography [9]float64

func newHomography(m mat.Matrix) (homography, error) {
	if r, c := m.Dims(); r != 3 || c != 3 {
		return homography{}, bderrors.New(bderrors.ErrCodeInternal, "homography must be 3x3, got %dx%d", r, c)
	}
	if det := mat.Det(m); det == 0 || math.IsNaN(det) {
		return homography{}, bderrors.New(bderrors.ErrCodeInternal, "singular perspective matrix")
	}
	var h homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i*3+j] = m.At(i, j)
		}
	}
	return h, nil
}

// apply maps (x, y) through h. ok is false when the point maps to
// infinity or behind the projection plane.
func (h homography) apply(x, y float64) (sx, sy float64, ok bool) {
	den := h[6]*x + h[7]*y + h[8]
	if den <= 0 {
		return 0, 0, false
	}
	sx = (h[0]*x + h[1]*y + h[2]) / den
	sy = (h[3]*x + h[4]*y + h[5]) / den
	return sx, sy, true
}
