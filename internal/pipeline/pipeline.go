// Package pipeline runs a backdrop job end to end.
//
// A run lists the icons, plans the grid, composes the base canvas, pads it
// and warps the padded copy. All three canvases are built in memory before
// any file is written, so a failing run leaves no partial output behind.
package pipeline

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/icon-backdrop/internal/config"
	"github.com/ironsheep/icon-backdrop/internal/imaging"
	"github.com/ironsheep/icon-backdrop/internal/layout"
	"github.com/ironsheep/icon-backdrop/internal/warp"
)

// Result describes a completed run.
type Result struct {
	Plan    *layout.GridPlan
	Icons   []imaging.IconInfo
	Skipped []imaging.SkippedFile
	Outputs config.OutputPaths
}

// Preview holds everything a run decides before drawing.
type Preview struct {
	Plan      *layout.GridPlan
	Inventory *imaging.Inventory
}

// Prepare lists the icons in cfg.InputDir and plans their grid without
// drawing or writing anything.
func Prepare(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Preview, error) {
	logger = orDiscard(logger)

	inv, err := imaging.ListIcons(cfg.InputDir)
	if inv != nil {
		for _, s := range inv.Skipped {
			logger.Warn("Skipping file", "path", s.Path, "reason", s.Err)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("Found icons", "count", len(inv.Icons), "dir", cfg.InputDir)

	planner := layout.Planner{ShrinkFactor: cfg.IconShrinkFactor}
	plan, err := planner.Plan(len(inv.Icons), cfg.CanvasWidth, cfg.CanvasHeight, cfg.MinGapRatio)
	if err != nil {
		return nil, err
	}

	logger.Infof("%d will be inserted in grid size %d x %d", plan.ItemCount, plan.Rows, plan.Columns)
	logger.Debug("Grid geometry",
		"full_icon_size", plan.FullIconSize,
		"icon_size", plan.IconSize,
		"gap", plan.GapSize,
		"min_gap", plan.MinGapSize)

	return &Preview{Plan: plan, Inventory: inv}, nil
}

// Run executes the whole job described by cfg and writes the base, padded
// and perspective images.
//
// Errors carry the codes from the internal errors package. Cancelling ctx
// aborts between icons and between stages with ctx.Err().
func Run(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	logger = orDiscard(logger)

	bg, err := imaging.ParseBackground(cfg.BackgroundColor, cfg.ImageTransparency)
	if err != nil {
		return nil, err
	}

	preview, err := Prepare(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	plan, icons := preview.Plan, preview.Inventory.Icons

	start := time.Now()
	base, err := imaging.Compose(ctx, plan, icons, imaging.CanvasOptions{
		Background: bg,
		Progress: func(index int, icon imaging.IconInfo) {
			logger.Info("Placing icon", "index", index, "of", len(icons), "path", icon.Path)
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Composed canvas", "elapsed", time.Since(start).Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	padded, err := imaging.Pad(base, cfg.ExtraPaddingFactor, bg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Padded canvas", "width", padded.Bounds().Dx(), "height", padded.Bounds().Dy())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	warped, err := warp.Warp(padded, warp.Options{
		AngleDegrees:    cfg.PerspectiveAngle,
		SkewFactor:      cfg.SkewFactor,
		DownscaleFactor: cfg.WarpDownscaleFactor,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Warped canvas", "elapsed", time.Since(start).Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outputs := cfg.OutputPaths()
	if err := saveAll(outputs, base, padded, warped); err != nil {
		return nil, err
	}
	logger.Info("Generated images", "dir", outputs.Dir())

	return &Result{
		Plan:    plan,
		Icons:   icons,
		Skipped: preview.Inventory.Skipped,
		Outputs: outputs,
	}, nil
}

func saveAll(out config.OutputPaths, base, padded, warped image.Image) error {
	for _, f := range []struct {
		path string
		img  image.Image
	}{
		{out.Base, base},
		{out.Padded, padded},
		{out.Perspective, warped},
	} {
		if err := imaging.SavePNG(f.path, f.img); err != nil {
			return err
		}
	}
	return nil
}

func orDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
