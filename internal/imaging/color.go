package imaging

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// ParseBackground parses a "#RRGGBB" or "#RGB" colour and attaches alpha.
func ParseBackground(hex string, alpha uint8) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, bderrors.Wrap(bderrors.ErrCodeConfig, err, "invalid background colour %q", hex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
