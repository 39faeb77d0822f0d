package detection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// ObjectColor is the purple used to outline detected objects.
var ObjectColor = color.RGBA{R: 0x9f, G: 0x00, B: 0xf0, A: 0xff}

// Objects is the result of DetectObjects.
type Objects struct {
	// Thresh is the inverse-binary threshold the contours were traced on.
	Thresh *image.Gray

	// Contours holds one outer contour per object, in raster order.
	Contours []Contour

	// Annotated is the input with every object outlined and counted.
	Annotated *image.RGBA
}

// DetectObjects finds dark objects on a light background.
//
// The image is converted to grayscale and inverse-thresholded at level so
// objects come out white, then the outer contour of each object with at
// least minPixels pixels is traced. The annotated copy has each contour drawn
// three pixels wide in ObjectColor and an "I found N objects!" label in the
// top-left corner.
func DetectObjects(img image.Image, level uint8, minPixels int) *Objects {
	thresh := imaging.Threshold(imaging.Grayscale(img), level, true)
	contours := FindContours(thresh, minPixels)

	out := Annotate(img, contours, ObjectColor, 3)
	b := out.Bounds()
	DrawLabel(out, b.Min.X+10, b.Min.Y+25, fmt.Sprintf("I found %d objects!", len(contours)), ObjectColor)

	return &Objects{
		Thresh:    thresh,
		Contours:  contours,
		Annotated: out,
	}
}
