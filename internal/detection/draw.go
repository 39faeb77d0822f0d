package detection

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// DrawPolygon strokes the closed polygon pts onto dst.
//
// Vertices are pixel coordinates; the stroke is centred on pixel centres and
// is thickness pixels wide. Segments get square caps so corners are closed.
func DrawPolygon(dst draw.Image, pts []Point, c color.Color, thickness float64) {
	if len(pts) == 0 || thickness <= 0 {
		return
	}

	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := thickness / 2

	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		x0, y0 := float64(p.X-b.Min.X)+0.5, float64(p.Y-b.Min.Y)+0.5
		x1, y1 := float64(q.X-b.Min.X)+0.5, float64(q.Y-b.Min.Y)+0.5

		// Unit direction; a zero-length segment becomes a square dot.
		dx, dy := x1-x0, y1-y0
		if l := math.Hypot(dx, dy); l > 0 {
			dx, dy = dx/l, dy/l
		} else {
			dx, dy = 1, 0
		}
		// Extend both ends by half the width, then offset along the normal.
		x0, y0 = x0-dx*half, y0-dy*half
		x1, y1 = x1+dx*half, y1+dy*half
		nx, ny := -dy*half, dx*half

		z.MoveTo(float32(x0+nx), float32(y0+ny))
		z.LineTo(float32(x1+nx), float32(y1+ny))
		z.LineTo(float32(x1-nx), float32(y1-ny))
		z.LineTo(float32(x0-nx), float32(y0-ny))
		z.ClosePath()
	}

	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// FillPolygon paints the interior of the polygon pts onto dst.
func FillPolygon(dst draw.Image, pts []Point, c color.Color) {
	if len(pts) < 3 {
		return
	}

	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X-b.Min.X)+0.5, float32(pts[0].Y-b.Min.Y)+0.5)
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-b.Min.X)+0.5, float32(p.Y-b.Min.Y)+0.5)
	}
	z.ClosePath()

	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// DrawLabel writes text onto dst with its baseline starting at (x, y),
// using a 7x13 bitmap face.
func DrawLabel(dst draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Annotate returns a copy of img with each contour outlined.
func Annotate(img image.Image, contours []Contour, c color.Color, thickness float64) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	for _, ct := range contours {
		DrawPolygon(out, ct.Points, c, thickness)
	}
	return out
}
