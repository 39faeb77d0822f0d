// Package detection finds object outlines in binary images and picks out the
// quadrilateral a document scan is built around.
//
// # Contours
//
// FindContours groups 8-connected foreground pixels into regions and traces
// the outer boundary of each. A boundary is a closed pixel path, clockwise in
// image coordinates, together with its bounding box, enclosed area and
// perimeter.
//
// # Quadrilaterals
//
// ApproxPolygon reduces a boundary with Douglas-Peucker. A tolerance of 2% of
// the perimeter collapses the staircase outline of a photographed page to its
// four corners while leaving rounder shapes with more vertices. FindQuads and
// FindDocument keep the contours that come out with exactly four vertices,
// largest first; ErrNoQuad reports that there was none.
//
// # Drawing
//
// DrawPolygon, FillPolygon and DrawLabel render outlines, filled shapes and
// text with golang.org/x/image, for annotated previews of what was found.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Limitations
//
// Contour extraction expects a clean binary image (edge map or threshold
// output). Outlines that are broken by gaps in the edge map do not close, and
// a page whose edge touches a background object merges with it.
package detection
