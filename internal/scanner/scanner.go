// Package scanner turns a photo of a sheet of paper into a flat, top-down
// scan of the page.
//
// Scan runs the stages in order and keeps every intermediate image so
// callers can show or save them:
//
//  1. Grayscale conversion
//  2. Gaussian blur
//  3. Canny edge detection, then a small dilation to close gaps
//  4. Largest contour that simplifies to four corners
//  5. Corner ordering and perspective rectification of the original photo
//  6. Grayscale (and optionally adaptive threshold) of the rectified page
//
// Detect stops after the corners are ordered, for callers that only need to
// locate the page.
package scanner

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/rectify"
)

// Options tunes the pipeline. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// BlurKernel is the Gaussian kernel size applied before edge detection.
	BlurKernel int

	// CannyLow and CannyHigh are the hysteresis thresholds (0-255 scale).
	CannyLow  int
	CannyHigh int

	// DilateRadius closes gaps in the edge map; 0 disables it.
	DilateRadius float64

	// MinContourPixels drops edge fragments smaller than this.
	MinContourPixels int

	// ApproxEpsilon is the polygon approximation tolerance as a fraction of
	// each contour's perimeter.
	ApproxEpsilon float64

	// Threshold applies an adaptive threshold to the scanned page.
	Threshold bool

	// ThresholdBlock and ThresholdOffset configure the adaptive threshold.
	ThresholdBlock  int
	ThresholdOffset int

	// OutlineColor and OutlineThickness style the detected page outline.
	OutlineColor     color.Color
	OutlineThickness float64
}

// DefaultOptions returns the settings used for a typical phone photo of a
// page on a darker surface.
func DefaultOptions() Options {
	return Options{
		BlurKernel:       5,
		CannyLow:         75,
		CannyHigh:        200,
		DilateRadius:     1,
		MinContourPixels: 20,
		ApproxEpsilon:    detection.DefaultApproxEpsilon,
		ThresholdBlock:   11,
		ThresholdOffset:  10,
		OutlineColor:     color.RGBA{R: 0, G: 255, B: 0, A: 255},
		OutlineThickness: 2,
	}
}

// Result holds every stage of a scan.
type Result struct {
	Gray    *image.Gray
	Blurred image.Image
	Edged   *image.Gray

	// Outline is the original photo with the detected page outlined.
	Outline *image.RGBA

	// Corners is the detected page, ordered.
	Corners rectify.OrderedQuad

	// Size is the rectified page size and the edge lengths it came from.
	Size rectify.Size

	// Warped is the rectified page in colour.
	Warped *image.NRGBA

	// Scanned is Warped in grayscale, thresholded when requested.
	Scanned *image.Gray
}

// Detect runs the stages up to and including corner ordering. Warped and
// Scanned are left nil.
//
// Returns an error wrapping detection.ErrNoQuad when no page outline is
// found.
func Detect(img image.Image, opts Options) (*Result, error) {
	res := &Result{}

	res.Gray = imaging.Grayscale(img)

	blurred, err := imaging.GaussianBlur(res.Gray, opts.BlurKernel)
	if err != nil {
		return nil, fmt.Errorf("blur: %w", err)
	}
	res.Blurred = blurred

	res.Edged = imaging.Canny(blurred, opts.CannyLow, opts.CannyHigh)
	closed := imaging.Dilate(res.Edged, opts.DilateRadius)

	quad, err := detection.FindDocument(closed, opts.MinContourPixels, opts.ApproxEpsilon)
	if err != nil {
		return nil, fmt.Errorf("find page: %w", err)
	}

	res.Corners, err = rectify.OrderCorners(quad.RectifyPoints())
	if err != nil {
		return nil, fmt.Errorf("order corners: %w", err)
	}
	res.Size = rectify.EstimateSize(res.Corners)

	res.Outline = image.NewRGBA(img.Bounds())
	draw.Draw(res.Outline, res.Outline.Bounds(), img, img.Bounds().Min, draw.Src)
	detection.DrawPolygon(res.Outline, quad[:], opts.OutlineColor, opts.OutlineThickness)

	return res, nil
}

// Scan finds the page in img and rectifies it.
//
// Returns an error wrapping detection.ErrNoQuad when no page outline is
// found, or one of the rectify sentinel errors when the outline cannot be
// rectified.
func Scan(img image.Image, opts Options) (*Result, error) {
	res, err := Detect(img, opts)
	if err != nil {
		return nil, err
	}

	res.Warped, err = rectify.Rectify(img, res.Corners)
	if err != nil {
		return nil, fmt.Errorf("rectify: %w", err)
	}

	if opts.Threshold {
		res.Scanned, err = imaging.AdaptiveThreshold(res.Warped, opts.ThresholdBlock, opts.ThresholdOffset)
		if err != nil {
			return nil, fmt.Errorf("threshold: %w", err)
		}
	} else {
		res.Scanned = imaging.Grayscale(res.Warped)
	}

	return res, nil
}
