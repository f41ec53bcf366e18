// Package warp turns a flat canvas into a tilted backdrop.
//
// A warp is three steps run in order on a copy of the input:
//
//  1. Downscale by a factor (0.5 by default) with a Lanczos filter.
//  2. Rotate about the image centre by a small angle in degrees.
//  3. Apply a one-point perspective tilt controlled by a skew factor.
//
// The output has the downscaled dimensions. Content rotated or tilted out
// of frame is clipped, and areas with no source content are transparent.
//
// # Coordinates
//
// Both transforms are described by the matrix that maps an output pixel
// centre (x+0.5, y+0.5) to a source position. Rotation uses
//
//	| cos θ  -sin θ  tx |
//	| sin θ   cos θ  ty |
//	|   0       0     1 |
//
// with tx = cx(1-cos θ) + cy·sin θ and ty = cy(1-cos θ) - cx·sin θ, where
// (cx, cy) is half the image size. The perspective tilt uses the homography
//
//	| 1  s  -w·s |
//	| 0  1  -h·s |
//	| 0  s   1   |
//
// Both are resampled with Catmull-Rom bicubic interpolation.
package warp
