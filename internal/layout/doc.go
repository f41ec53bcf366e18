// Package layout computes grid placements for a set of square icons on a
// rectangular canvas.
//
// The planner picks a column count whose aspect ratio follows the canvas,
// balances the rows so the last one is not needlessly sparse, sizes the icons
// to leave breathing room, and then spreads each row evenly with a minimum
// gap between neighbours. Odd rows are indented by one extra gap so that
// consecutive rows do not line up vertically.
//
// # Coordinate System
//
// Coordinates follow the image convention used throughout the module:
// (0,0) is the top-left corner of the canvas, X increases rightward and Y
// increases downward. Placement coordinates are the top-left corner of the
// icon and are kept as float64; callers truncate them to whole pixels when
// drawing.
//
// # Determinism
//
// Plan is a pure function of its arguments. Calling it twice with the same
// inputs yields identical plans, which keeps repeated runs byte-for-byte
// reproducible.
package layout
