package rectify

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// collinearEpsilon is the relative triangle area below which three corners
// are treated as collinear.
const collinearEpsilon = 1e-9

// MaxOutputPixels bounds the area of a rectified image, 256 MiB of NRGBA.
const MaxOutputPixels = 1 << 26

// Size is the output size estimated from an ordered quad.
type Size struct {
	// Width is max(int(WidthTop), int(WidthBottom)).
	Width int `json:"width"`

	// Height is max(int(HeightLeft), int(HeightRight)).
	Height int `json:"height"`

	WidthTop    float64 `json:"width_top"`
	WidthBottom float64 `json:"width_bottom"`
	HeightLeft  float64 `json:"height_left"`
	HeightRight float64 `json:"height_right"`
}

// EstimateSize measures the quad's edges and returns the size of the
// rectangle it will be rectified onto. Each edge length is truncated to an
// integer before taking the larger of each opposite pair.
func EstimateSize(q OrderedQuad) Size {
	s := Size{
		WidthTop:    distance(q.TopRight, q.TopLeft),
		WidthBottom: distance(q.BottomRight, q.BottomLeft),
		HeightLeft:  distance(q.TopLeft, q.BottomLeft),
		HeightRight: distance(q.TopRight, q.BottomRight),
	}
	s.Width = max(truncate(s.WidthTop), truncate(s.WidthBottom))
	s.Height = max(truncate(s.HeightLeft), truncate(s.HeightRight))
	return s
}

// truncate converts an edge length to int, saturating at math.MaxInt32.
func truncate(v float64) int {
	if !(v < math.MaxInt32) {
		return math.MaxInt32
	}
	return int(v)
}

// CheckGeometry returns an error wrapping ErrDegenerateGeometry if any two
// corners coincide or any three are collinear.
func CheckGeometry(q OrderedQuad) error {
	pts := q.Points()

	span := 0.0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			span = math.Max(span, distance(pts[i], pts[j]))
		}
	}
	if span == 0 {
		return fmt.Errorf("%w: all corners coincide at %v", ErrDegenerateGeometry, pts[0])
	}

	for skip := 0; skip < 4; skip++ {
		tri := make([]Point, 0, 3)
		for i, p := range pts {
			if i != skip {
				tri = append(tri, p)
			}
		}
		if math.Abs(cross(tri[0], tri[1], tri[2])) <= collinearEpsilon*span*span {
			return fmt.Errorf("%w: corners %v %v %v are collinear", ErrDegenerateGeometry, tri[0], tri[1], tri[2])
		}
	}
	return nil
}

// Rectify maps the quadrilateral q of src onto an upright rectangle.
//
// Parameters:
//   - src: The source raster. It is not modified.
//   - q: The region's corners, as returned by OrderCorners.
//
// Returns:
//   - *image.NRGBA: The rectified region, EstimateSize(q).Width by
//     EstimateSize(q).Height pixels, with bounds starting at (0,0).
//   - error: Wraps ErrDegenerateGeometry for coincident or collinear corners,
//     or ErrInvalidDimensions when either side is shorter than 2 pixels or
//     the output would exceed MaxOutputPixels.
//
// # Algorithm
//
//  1. Validate the corner geometry.
//  2. Estimate the output size (see EstimateSize) and check it against
//     MaxOutputPixels before anything is allocated.
//  3. Solve the homography mapping q onto (0,0), (w-1,0), (w-1,h-1), (0,h-1).
//  4. For every output pixel, map it back through the inverse homography and
//     sample the source bilinearly. Neighbours past the image edge replicate
//     the edge pixel; points more than half a pixel outside the source become
//     transparent black.
func Rectify(src image.Image, q OrderedQuad) (*image.NRGBA, error) {
	if err := CheckGeometry(q); err != nil {
		return nil, err
	}

	size := EstimateSize(q)
	area := math.Max(size.WidthTop, size.WidthBottom) * math.Max(size.HeightLeft, size.HeightRight)
	if !(area <= MaxOutputPixels) {
		return nil, fmt.Errorf("%w: %.0fx%.0f exceeds %d pixels", ErrInvalidDimensions,
			math.Max(size.WidthTop, size.WidthBottom), math.Max(size.HeightLeft, size.HeightRight), MaxOutputPixels)
	}
	if size.Width < 2 || size.Height < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, size.Width, size.Height)
	}

	w, h := float64(size.Width-1), float64(size.Height-1)
	dst := [4]Point{{0, 0}, {w, 0}, {w, h}, {0, h}}

	forward, err := SolveHomography(q.Points(), dst)
	if err != nil {
		return nil, err
	}
	inverse, err := forward.Inverse()
	if err != nil {
		return nil, err
	}

	// Clone normalizes any image type to NRGBA with bounds at the origin.
	origin := src.Bounds().Min
	source := imaging.Clone(src)

	out := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			p, ok := inverse.Apply(Point{X: float64(x), Y: float64(y)})
			if !ok {
				continue
			}
			c := sampleBilinear(source, p.X-float64(origin.X), p.Y-float64(origin.Y))
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = c.A
		}
	}

	return out, nil
}

// FourPointTransform orders pts and rectifies the region they enclose.
func FourPointTransform(src image.Image, pts []Point) (*image.NRGBA, OrderedQuad, error) {
	q, err := OrderCorners(pts)
	if err != nil {
		return nil, OrderedQuad{}, err
	}
	out, err := Rectify(src, q)
	if err != nil {
		return nil, q, err
	}
	return out, q, nil
}

// sampleBilinear reads img at a fractional pixel position. img must have
// bounds starting at the origin.
func sampleBilinear(img *image.NRGBA, x, y float64) color.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if x < -0.5 || y < -0.5 || x > float64(w)-0.5 || y > float64(h)-0.5 {
		return color.NRGBA{}
	}

	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	off := func(px, py int) int {
		return clampInt(py, 0, h-1)*img.Stride + clampInt(px, 0, w-1)*4
	}
	o00, o10 := off(ix, iy), off(ix+1, iy)
	o01, o11 := off(ix, iy+1), off(ix+1, iy+1)

	var c [4]uint8
	for ch := 0; ch < 4; ch++ {
		top := float64(img.Pix[o00+ch])*(1-fx) + float64(img.Pix[o10+ch])*fx
		bottom := float64(img.Pix[o01+ch])*(1-fx) + float64(img.Pix[o11+ch])*fx
		v := math.Round(top*(1-fy) + bottom*fy)
		c[ch] = uint8(math.Max(0, math.Min(255, v)))
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
