// Package imaging composes raster icons onto a canvas and persists the result.
//
// This package covers everything between a directory of icon files and the
// PNG artifacts of a run: scanning and classifying the input directory,
// decoding and resizing icons, compositing them at the positions of a
// layout.GridPlan, padding the composed canvas, and writing PNG files.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Placements are truncated to
// whole pixels before drawing.
//
// # Supported Formats
//
// Icons are recognised by content, not extension. PNG, JPEG and GIF decoders
// come from the standard library; BMP, TIFF and WebP from golang.org/x/image.
// SVG files are skipped as vector formats. EXIF orientation in JPEGs is
// applied on decode.
//
// # Snapshots
//
// Compose and Pad return new *image.NRGBA values and never modify their
// inputs, so each stage of a run can be kept and inspected independently.
// OverlayPlan draws numbered placement outlines on a copy of a canvas for
// checking a layout without decoding any icon.
//
// # Error Handling
//
// Errors carry codes from the internal errors package:
//   - EMPTY_INPUT when a directory holds no usable raster icon
//   - IO for unreadable directories, undecodable icons and failed writes
//   - CONFIG for invalid padding factors or background colours
package imaging
