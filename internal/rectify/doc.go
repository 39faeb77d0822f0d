// Package rectify turns a skewed quadrilateral region of an image into an
// upright, top-down rectangle.
//
// The package has two parts:
//
//   - OrderCorners assigns four unordered points to the top-left, top-right,
//     bottom-right and bottom-left corners of a quadrilateral.
//   - Rectify estimates the output size from the ordered corners, solves the
//     homography that maps them onto an axis-aligned rectangle and resamples
//     the source through its inverse with bilinear interpolation.
//
// FourPointTransform chains both steps.
//
// # Coordinate System
//
// Points are float64 pixel coordinates in the source image's own coordinate
// space: origin at the top-left, X increasing rightward, Y increasing
// downward. Sources whose Bounds().Min is not (0,0) are handled; corner
// coordinates are interpreted relative to the image coordinate space, not to
// Bounds().Min.
//
// # Corner Ordering
//
// The top-left corner has the smallest X+Y and the bottom-right the largest.
// The top-right corner has the smallest Y-X and the bottom-left the largest.
// Equal keys are broken lexicographically on (X, Y), so the smaller point
// wins. When these four picks are not a permutation of the input (a square
// rotated by 45 degrees, or degenerate input), the points are instead
// ordered clockwise by angle around their centroid, starting at the top-left
// pick. The result is always a permutation of the input and never depends on
// input order.
//
// # Errors
//
// All failures wrap one of three sentinel errors, testable with errors.Is:
//
//   - ErrInvalidInput: not exactly four points, or non-finite coordinates
//   - ErrDegenerateGeometry: coincident or collinear corners, singular transform
//   - ErrInvalidDimensions: the estimated output is narrower or shorter than 2 pixels
//
// No partial output is produced on failure.
//
// # Thread Safety
//
// Every function is pure and safe for concurrent use. Rectifying many quads
// from one image may be parallelized per quad by the caller.
package rectify
