package layout

import (
	"image"
	"math"

	bderrors "github.com/ironsheep/icon-backdrop/internal/errors"
)

// DefaultShrinkFactor scales the cell-sized icon down before gap fitting.
const DefaultShrinkFactor = 0.70

// Placement is the planned position of a single icon.
type Placement struct {
	Index int     `json:"index"` // Position in the input order
	Row   int     `json:"row"`   // Zero-based row
	Col   int     `json:"col"`   // Zero-based column within the row
	X     float64 `json:"x"`     // Top-left X
	Y     float64 `json:"y"`     // Top-left Y
	Size  float64 `json:"size"`  // Square edge length
}

// Point returns the placement's top-left corner truncated to whole pixels.
func (p Placement) Point() image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

// PixelSize returns the icon edge length truncated to whole pixels.
func (p Placement) PixelSize() int {
	return int(p.Size)
}

// Row describes the horizontal geometry of one grid row.
type Row struct {
	Index    int     `json:"index"`
	Columns  int     `json:"columns"`
	IconSize float64 `json:"icon_size"`
	GapSize  float64 `json:"gap_size"`
	StartX   float64 `json:"start_x"`
	Y        float64 `json:"y"`
}

// GridPlan is the complete placement plan for a run.
type GridPlan struct {
	ItemCount    int     `json:"item_count"`
	CanvasWidth  int     `json:"canvas_width"`
	CanvasHeight int     `json:"canvas_height"`
	MinGapRatio  float64 `json:"min_gap_ratio"`

	Rows    int `json:"rows"`
	Columns int `json:"columns"`

	// FullIconSize is the row band height: the cell size before shrinking.
	FullIconSize int `json:"full_icon_size"`

	// IconSize is the final icon edge after shrinking and gap fitting.
	IconSize float64 `json:"icon_size"`

	// MinGapSize is IconSize before gap fitting multiplied by MinGapRatio.
	MinGapSize float64 `json:"min_gap_size"`

	// GapSize is the horizontal gap between icons. Every row holds Columns
	// slots, so every entry of RowLayouts has this same gap.
	GapSize float64 `json:"gap_size"`

	RowLayouts []Row       `json:"row_layouts"`
	Placements []Placement `json:"placements"`
}

// PixelIconSize returns the final icon edge length truncated to whole pixels.
func (g *GridPlan) PixelIconSize() int {
	return int(g.IconSize)
}

// Planner computes grid plans. The zero value uses DefaultShrinkFactor.
type Planner struct {
	// ShrinkFactor scales the full cell size down to the icon size.
	// Must be in (0, 1]; zero selects DefaultShrinkFactor.
	ShrinkFactor float64
}

// Plan computes a grid plan with the default shrink factor.
func Plan(itemCount, canvasWidth, canvasHeight int, minGapRatio float64) (*GridPlan, error) {
	return Planner{}.Plan(itemCount, canvasWidth, canvasHeight, minGapRatio)
}

// Plan lays out itemCount square icons on a canvasWidth x canvasHeight canvas.
//
// Parameters:
//   - itemCount: Number of icons to place. Must be at least 1.
//   - canvasWidth, canvasHeight: Canvas size in pixels. Both must be positive.
//   - minGapRatio: Minimum gap between icons as a fraction of the icon size,
//     in [0, 1).
//
// Returns:
//   - *GridPlan: Row/column counts, icon and gap sizes, and one Placement per
//     item in input order.
//   - error: A CONFIG error for invalid arguments, or when the canvas is too
//     small to give every icon at least one pixel.
//
// # Algorithm
//
//  1. columns = ceil(sqrt(itemCount * width/height))
//  2. rows = ceil(itemCount/columns), then columns = ceil(itemCount/rows)
//  3. fullIconSize = min(width div (columns+1), height div rows);
//     iconSize = fullIconSize * ShrinkFactor
//  4. minGap = iconSize * minGapRatio
//  5. Per row, if width - columns*iconSize leaves less than
//     (columns+1)*minGap, the icon is shrunk so the minimum gap holds exactly
//  6. gap = remaining width / (columns+1)
//  7. Even rows start one gap in, odd rows two gaps in
//  8. x = start + col*(iconSize+gap);
//     y = (fullIconSize-iconSize)/2 + row*fullIconSize
func (p Planner) Plan(itemCount, canvasWidth, canvasHeight int, minGapRatio float64) (*GridPlan, error) {
	if itemCount <= 0 {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "cannot plan a grid for %d items", itemCount)
	}
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "canvas size %dx%d must be positive", canvasWidth, canvasHeight)
	}
	if minGapRatio < 0 || minGapRatio >= 1 || math.IsNaN(minGapRatio) {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "min gap ratio %v must be in [0, 1)", minGapRatio)
	}
	shrink := p.ShrinkFactor
	if shrink == 0 {
		shrink = DefaultShrinkFactor
	}
	if shrink < 0 || shrink > 1 || math.IsNaN(shrink) {
		return nil, bderrors.New(bderrors.ErrCodeConfig, "shrink factor %v must be in (0, 1]", shrink)
	}

	columns := int(math.Ceil(math.Sqrt(float64(itemCount) * float64(canvasWidth) / float64(canvasHeight))))
	if columns < 1 {
		columns = 1
	}
	rows := ceilDiv(itemCount, columns)
	columns = ceilDiv(itemCount, rows)

	fullIconSize := min(canvasWidth/(columns+1), canvasHeight/rows)
	iconSize := float64(fullIconSize) * shrink
	if iconSize < 1 {
		return nil, bderrors.New(bderrors.ErrCodeConfig,
			"canvas %dx%d is too small for %d icons in a %dx%d grid",
			canvasWidth, canvasHeight, itemCount, rows, columns)
	}
	minGapSize := iconSize * minGapRatio

	plan := &GridPlan{
		ItemCount:    itemCount,
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
		MinGapRatio:  minGapRatio,
		Rows:         rows,
		Columns:      columns,
		FullIconSize: fullIconSize,
		MinGapSize:   minGapSize,
		RowLayouts:   make([]Row, 0, rows),
		Placements:   make([]Placement, 0, itemCount),
	}

	width := float64(canvasWidth)
	placed := 0
	for row := 0; row < rows; row++ {
		columnsInRow := columns
		if columnsInRow <= 0 {
			continue
		}

		totalGap := width - float64(columnsInRow)*iconSize
		if totalGap < float64(columnsInRow+1)*minGapSize {
			iconSize = (width - float64(columnsInRow+1)*minGapSize) / float64(columnsInRow)
			totalGap = width - float64(columnsInRow)*iconSize
		}
		gapSize := totalGap / float64(columnsInRow+1)

		startGap := gapSize
		if row%2 == 1 {
			startGap = 2 * gapSize
		}
		y := (float64(fullIconSize)-iconSize)/2 + float64(row*fullIconSize)

		plan.RowLayouts = append(plan.RowLayouts, Row{
			Index:    row,
			Columns:  columnsInRow,
			IconSize: iconSize,
			GapSize:  gapSize,
			StartX:   startGap,
			Y:        y,
		})
		plan.GapSize = gapSize

		for col := 0; col < columnsInRow && placed < itemCount; col++ {
			plan.Placements = append(plan.Placements, Placement{
				Index: placed,
				Row:   row,
				Col:   col,
				X:     startGap + float64(col)*(iconSize+gapSize),
				Y:     y,
				Size:  iconSize,
			})
			placed++
		}
	}

	if iconSize < 1 {
		return nil, bderrors.New(bderrors.ErrCodeConfig,
			"min gap ratio %v leaves icons smaller than one pixel on a %d pixel wide canvas",
			minGapRatio, canvasWidth)
	}
	plan.IconSize = iconSize

	return plan, nil
}

// ceilDiv returns ceil(a/b) for positive integers.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
