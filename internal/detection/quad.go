package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/docscan-mcp/internal/rectify"
)

// ErrNoQuad is returned when no contour simplifies to exactly four vertices.
var ErrNoQuad = errors.New("no four-cornered contour found")

// DefaultApproxEpsilon is the polygon approximation tolerance as a fraction
// of the contour perimeter.
const DefaultApproxEpsilon = 0.02

// Quad is a four-vertex contour approximation, in contour order.
type Quad [4]Point

// RectifyPoints converts the quad to the rectifier's point type.
func (q Quad) RectifyPoints() []rectify.Point {
	pts := make([]rectify.Point, len(q))
	for i, p := range q {
		pts[i] = rectify.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return pts
}

// QuadCandidate is a contour together with its polygon approximation.
type QuadCandidate struct {
	Contour Contour `json:"contour"`
	Approx  []Point `json:"approx"`
}

// FindQuads approximates every contour and returns those with exactly four
// vertices, largest area first.
//
// epsilonFrac scales the approximation tolerance by each contour's
// perimeter; 0.02 suits a sheet of paper photographed on a darker surface.
func FindQuads(contours []Contour, epsilonFrac float64) []QuadCandidate {
	sorted := append([]Contour(nil), contours...)
	SortByArea(sorted)

	quads := make([]QuadCandidate, 0)
	for _, c := range sorted {
		approx := ApproxPolygon(c.Points, epsilonFrac*c.Perimeter)
		if len(approx) == 4 {
			quads = append(quads, QuadCandidate{Contour: c, Approx: approx})
		}
	}
	return quads
}

// FindDocument returns the largest four-vertex contour in a binary edge map.
//
// Returns ErrNoQuad (wrapped) if none of the contours simplifies to a
// quadrilateral.
func FindDocument(edges *image.Gray, minPixels int, epsilonFrac float64) (Quad, error) {
	contours := FindContours(edges, minPixels)
	quads := FindQuads(contours, epsilonFrac)
	if len(quads) == 0 {
		return Quad{}, fmt.Errorf("%w among %d contours", ErrNoQuad, len(contours))
	}

	var q Quad
	copy(q[:], quads[0].Approx)
	return q, nil
}
