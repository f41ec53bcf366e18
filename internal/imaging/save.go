package imaging

import (
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// SavePNG writes img to path as PNG, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return bderrors.Wrap(bderrors.ErrCodeIO, err, "create output directory for %s", path)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return bderrors.Wrap(bderrors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
