// Package config loads and validates the backdrop run configuration.
//
// A configuration is a JSON document (or TOML, selected by a .toml file
// extension) with the keys below. Required keys are checked for presence, so
// an explicit zero such as "angle": 0 is accepted while a missing key is not.
//
//	{
//	  "canvas_size": {"height": 1080, "width": 1920},
//	  "min_gap_ratio": 0.1,
//	  "input_dir": "icons",
//	  "output_path": "out/background.png",
//	  "image_transparency": 255,
//	  "extra_padding_factor": 1.5,
//	  "perspective_transform": {"angle": 2, "skew_factor": 0.0008},
//
//	  "icon_shrink_factor": 0.70,
//	  "warp_downscale_factor": 0.50,
//	  "background_color": "#FFFFFF"
//	}
//
// The last three keys are optional. Relative input_dir and output_path values
// are resolved against the directory holding the configuration file.
package config

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// Defaults for the optional keys.
const (
	DefaultIconShrinkFactor    = 0.70
	DefaultWarpDownscaleFactor = 0.50
	DefaultBackgroundColor     = "#FFFFFF"
)

// Output file suffixes derived from output_path.
const (
	pngExt            = ".png"
	paddedSuffix      = "_extra_padding.png"
	perspectiveSuffix = "_perspective.png"
)

// Format selects the configuration syntax.
type Format int

const (
	FormatJSON Format = iota
	FormatTOML
)

// Config is a validated, immutable run configuration.
type Config struct {
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`

	// MinGapRatio is the minimum gap between icons as a fraction of icon size.
	MinGapRatio float64 `json:"min_gap_ratio"`

	InputDir   string `json:"input_dir"`
	OutputPath string `json:"output_path"`

	// ImageTransparency is the alpha of the canvas background (0-255).
	ImageTransparency uint8 `json:"image_transparency"`

	// ExtraPaddingFactor scales both canvas dimensions before warping.
	ExtraPaddingFactor float64 `json:"extra_padding_factor"`

	PerspectiveAngle float64 `json:"perspective_angle"`
	SkewFactor       float64 `json:"skew_factor"`

	IconShrinkFactor    float64 `json:"icon_shrink_factor"`
	WarpDownscaleFactor float64 `json:"warp_downscale_factor"`
	BackgroundColor     string  `json:"background_color"`
}

// OutputPaths holds the three artifact paths of a run.
type OutputPaths struct {
	Base        string `json:"base"`
	Padded      string `json:"padded"`
	Perspective string `json:"perspective"`
}

// All returns the paths in the order they are written.
func (o OutputPaths) All() []string {
	return []string{o.Base, o.Padded, o.Perspective}
}

// Dir is the directory the artifacts are written to.
func (o OutputPaths) Dir() string {
	return filepath.Dir(o.Base)
}

// OutputPaths derives the padded and perspective paths by replacing the
// trailing .png of OutputPath.
func (c *Config) OutputPaths() OutputPaths {
	stem := strings.TrimSuffix(c.OutputPath, pngExt)
	return OutputPaths{
		Base:        c.OutputPath,
		Padded:      stem + paddedSuffix,
		Perspective: stem + perspectiveSuffix,
	}
}

// fileConfig mirrors the on-disk layout. Pointer fields record presence.
type fileConfig struct {
	CanvasSize *struct {
		Height *int `json:"height" toml:"height"`
		Width  *int `json:"width" toml:"width"`
	} `json:"canvas_size" toml:"canvas_size"`
	MinGapRatio          *float64 `json:"min_gap_ratio" toml:"min_gap_ratio"`
	InputDir             *string  `json:"input_dir" toml:"input_dir"`
	OutputPath           *string  `json:"output_path" toml:"output_path"`
	ImageTransparency    *int     `json:"image_transparency" toml:"image_transparency"`
	ExtraPaddingFactor   *float64 `json:"extra_padding_factor" toml:"extra_padding_factor"`
	PerspectiveTransform *struct {
		Angle      *float64 `json:"angle" toml:"angle"`
		SkewFactor *float64 `json:"skew_factor" toml:"skew_factor"`
	} `json:"perspective_transform" toml:"perspective_transform"`

	IconShrinkFactor    *float64 `json:"icon_shrink_factor" toml:"icon_shrink_factor"`
	WarpDownscaleFactor *float64 `json:"warp_downscale_factor" toml:"warp_downscale_factor"`
	BackgroundColor     *string  `json:"background_color" toml:"background_color"`
}

// FormatFromPath picks TOML for a .toml extension and JSON otherwise.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// Load reads, parses and validates the configuration file at path.
// Relative directories in the file are resolved against path's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeConfig, err, "read config %s", path)
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	cfg.InputDir = resolve(base, cfg.InputDir)
	cfg.OutputPath = resolve(base, cfg.OutputPath)
	return cfg, nil
}

// Parse decodes and validates a configuration document. Paths are returned
// as written.
func Parse(data []byte, format Format) (*Config, error) {
	var fc fileConfig
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&fc); err != nil {
			return nil, bderrors.Wrap(bderrors.ErrCodeConfig, err, "parse TOML config")
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, bderrors.Wrap(bderrors.ErrCodeConfig, err, "parse JSON config")
		}
	}
	return fc.build()
}

func (fc *fileConfig) build() (*Config, error) {
	var missing []string
	need := func(present bool, key string) {
		if !present {
			missing = append(missing, key)
		}
	}

	need(fc.CanvasSize != nil && fc.CanvasSize.Height != nil, "canvas_size.height")
	need(fc.CanvasSize != nil && fc.CanvasSize.Width != nil, "canvas_size.width")
	need(fc.MinGapRatio != nil, "min_gap_ratio")
	need(fc.InputDir != nil, "input_dir")
	need(fc.OutputPath != nil, "output_path")
	need(fc.ImageTransparency != nil, "image_transparency")
	need(fc.ExtraPaddingFactor != nil, "extra_padding_factor")
	need(fc.PerspectiveTransform != nil && fc.PerspectiveTransform.Angle != nil, "perspective_transform.angle")
	need(fc.PerspectiveTransform != nil && fc.PerspectiveTransform.SkewFactor != nil, "perspective_transform.skew_factor")
	if len(missing) > 0 {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "missing required keys: %s", strings.Join(missing, ", "))
	}

	if *fc.ImageTransparency < 0 || *fc.ImageTransparency > 255 {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "image_transparency %d must be in [0, 255]", *fc.ImageTransparency)
	}

	cfg := &Config{
		CanvasWidth:         *fc.CanvasSize.Width,
		CanvasHeight:        *fc.CanvasSize.Height,
		MinGapRatio:         *fc.MinGapRatio,
		InputDir:            *fc.InputDir,
		OutputPath:          *fc.OutputPath,
		ImageTransparency:   uint8(*fc.ImageTransparency),
		ExtraPaddingFactor:  *fc.ExtraPaddingFactor,
		PerspectiveAngle:    *fc.PerspectiveTransform.Angle,
		SkewFactor:          *fc.PerspectiveTransform.SkewFactor,
		IconShrinkFactor:    DefaultIconShrinkFactor,
		WarpDownscaleFactor: DefaultWarpDownscaleFactor,
		BackgroundColor:     DefaultBackgroundColor,
	}
	if fc.IconShrinkFactor != nil {
		cfg.IconShrinkFactor = *fc.IconShrinkFactor
	}
	if fc.WarpDownscaleFactor != nil {
		cfg.WarpDownscaleFactor = *fc.WarpDownscaleFactor
	}
	if fc.BackgroundColor != nil {
		cfg.BackgroundColor = *fc.BackgroundColor
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. Load and Parse call it; it is exported for
// configurations built in code.
func (c *Config) Validate() error {
	switch {
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return invalid("canvas_size %dx%d must be positive", c.CanvasWidth, c.CanvasHeight)
	case !inRange(c.MinGapRatio, 0, 1) || c.MinGapRatio == 1:
		return invalid("min_gap_ratio %v must be in [0, 1)", c.MinGapRatio)
	case strings.TrimSpace(c.InputDir) == "":
		return invalid("input_dir must not be empty")
	case !strings.HasSuffix(c.OutputPath, pngExt) || len(c.OutputPath) == len(pngExt):
		return invalid("output_path %q must name a .png file", c.OutputPath)
	case math.IsNaN(c.ExtraPaddingFactor) || math.IsInf(c.ExtraPaddingFactor, 0) || c.ExtraPaddingFactor < 1:
		return invalid("extra_padding_factor %v must be at least 1", c.ExtraPaddingFactor)
	case !finite(c.PerspectiveAngle):
		return invalid("perspective_transform.angle %v must be finite", c.PerspectiveAngle)
	case !finite(c.SkewFactor):
		return invalid("perspective_transform.skew_factor %v must be finite", c.SkewFactor)
	case !inRange(c.IconShrinkFactor, 0, 1) || c.IconShrinkFactor == 0:
		return invalid("icon_shrink_factor %v must be in (0, 1]", c.IconShrinkFactor)
	case !inRange(c.WarpDownscaleFactor, 0, 1) || c.WarpDownscaleFactor == 0:
		return invalid("warp_downscale_factor %v must be in (0, 1]", c.WarpDownscaleFactor)
	}
	if _, err := colorful.Hex(c.BackgroundColor); err != nil {
		return bderrors.Wrap(bderrors.ErrCodeConfig, err, "background_color %q", c.BackgroundColor)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return bderrors.New(bderrors.ErrCodeConfig, format, args...)
}

// inRange reports whether lo <= v <= hi.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
