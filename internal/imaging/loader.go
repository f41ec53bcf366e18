package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// vectorExts lists extensions skipped as vector formats.
var vectorExts = map[string]bool{
	".svg":  true,
	".svgz": true,
}

// IconInfo describes one usable raster icon found in the input directory.
type IconInfo struct {
	// Path is the icon file path (input directory joined with the file name).
	Path string `json:"path"`

	// Format is the decoder that recognised the file header: "png", "jpeg",
	// "gif", "bmp", "tiff" or "webp". It does not depend on the extension.
	Format string `json:"format"`

	// Width and Height are the source dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// SkippedFile is an input entry left out of the grid.
type SkippedFile struct {
	Path string `json:"path"`

	// Err carries an UNSUPPORTED_FORMAT error explaining the skip.
	Err error `json:"-"`
}

// Inventory is the result of scanning an input directory.
type Inventory struct {
	Dir     string        `json:"dir"`
	Icons   []IconInfo    `json:"icons"`
	Skipped []SkippedFile `json:"skipped"`
}

// ListIcons scans dir for raster icons in lexicographic file-name order.
//
// Parameters:
//   - dir: Directory to scan. Subdirectories are not descended into.
//
// Returns:
//   - *Inventory: Usable icons plus the files that were skipped. It is
//     returned even when err is an EMPTY_INPUT error so callers can report
//     what was skipped.
//   - error: IO if the directory cannot be read, EMPTY_INPUT if no file
//     could be used.
//
// # Classification
//
//   - Directories and dotfiles are ignored without a record
//   - .svg and .svgz files are skipped as vector formats
//   - Other files are probed with image.DecodeConfig, which reads only the
//     header; files no registered decoder accepts are skipped
func ListIcons(dir string) (*Inventory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeIO, err, "read input directory %s", dir)
	}

	inv := &Inventory{Dir: dir}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if vectorExts[strings.ToLower(filepath.Ext(name))] {
			inv.Skipped = append(inv.Skipped, SkippedFile{
				Path: path,
				Err:  bderrors.New(bderrors.ErrCodeUnsupportedFormat, "vector format not supported: %s", name),
			})
			continue
		}

		info, err := probeIcon(path)
		if err != nil {
			inv.Skipped = append(inv.Skipped, SkippedFile{
				Path: path,
				Err:  bderrors.Wrap(bderrors.ErrCodeUnsupportedFormat, err, "unrecognized image format: %s", name),
			})
			continue
		}
		inv.Icons = append(inv.Icons, *info)
	}

	if len(inv.Icons) == 0 {
		return inv, bderrors.New(bderrors.ErrCodeEmptyInput,
			"no raster images found in %s (%d files skipped)", dir, len(inv.Skipped))
	}
	return inv, nil
}

// probeIcon reads the image header and file size without decoding pixels.
func probeIcon(path string) (*IconInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &IconInfo{
		Path:          path,
		Format:        format,
		Width:         cfg.Width,
		Height:        cfg.Height,
		FileSizeBytes: stat.Size(),
	}, nil
}

// OpenIcon decodes the icon at path, applying any EXIF orientation.
func OpenIcon(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeIO, err, "decode icon %s", path)
	}
	return img, nil
}
