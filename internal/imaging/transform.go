package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Resize scales img to width x height using Lanczos resampling.
//
// If exactly one of width or height is 0, it is computed from the other so
// that the aspect ratio is preserved. Negative sizes, or both sides 0, are
// rejected.
func Resize(img image.Image, width, height int) (*image.NRGBA, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid size %dx%d: dimensions must not be negative", width, height)
	}
	if width == 0 && height == 0 {
		return nil, fmt.Errorf("invalid size 0x0: at least one dimension is required")
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// Rotate turns img clockwise by degrees about its centre.
//
// The canvas keeps the source size, so corners that leave it are clipped and
// uncovered areas are transparent black. Negative angles rotate
// counter-clockwise.
func Rotate(img image.Image, degrees float64) *image.RGBA {
	return transform.Rotate(img, degrees, &transform.RotationOptions{ResizeBounds: false})
}
