// Package imaging provides the raster operations the document scanner is
// built from.
//
// Loading and caching, pixel access, crop, resize, rotation, Gaussian blur,
// grayscale conversion, thresholding and Canny edge detection all live here,
// along with PNG/base64 encoding for tool responses. Most operations are thin
// wrappers over github.com/disintegration/imaging and
// github.com/anthonynsimon/bild; Canny is implemented locally.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Coordinates are absolute, so an image whose bounds do not start at (0,0)
// is addressed with its own bounds.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and never modify their input.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. Cached images stay in memory until Evict() or Clear().
package imaging
