package detection

import (
	"image"
	"math"
	"sort"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is the outer boundary of one connected foreground region.
type Contour struct {
	// Points is the boundary traced clockwise from the region's top-left
	// pixel. Thin parts of the region may appear twice.
	Points []Point `json:"-"`

	// Bounds is the bounding box of the region.
	Bounds Bounds `json:"bounds"`

	// Area is the area enclosed by Points (shoelace formula over pixel
	// centres), so a filled 10x10 square reports 81.
	Area float64 `json:"area"`

	// Perimeter is the length of the closed boundary.
	Perimeter float64 `json:"perimeter"`

	// Pixels is the number of foreground pixels in the region.
	Pixels int `json:"pixels"`
}

// FindContours extracts the outer contour of every connected foreground
// region in a binary image.
//
// Any non-zero pixel is foreground. Regions are 8-connected; regions with
// fewer than minPixels pixels are discarded as noise. Holes are not reported,
// but a region sitting inside another region's hole gets its own contour.
//
// Contours are returned in raster order of their top-left pixel. Coordinates
// are absolute, matching bin.Bounds().
//
// # Algorithm
//
//  1. Raster scan for an unvisited foreground pixel
//  2. Flood-fill its region to mark it visited and count its pixels
//  3. Trace the outer boundary from that pixel (Moore neighbour tracing)
//  4. Compute bounds, enclosed area and perimeter from the boundary
func FindContours(bin *image.Gray, minPixels int) []Contour {
	b := bin.Bounds()
	width, height := b.Dx(), b.Dy()

	fg := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return bin.Pix[y*bin.Stride+x] != 0
	}

	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	contours := make([]Contour, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !fg(x, y) || visited[y][x] {
				continue
			}
			pixels := floodFill(fg, visited, x, y, width, height)
			if pixels < minPixels {
				continue
			}

			boundary := traceBoundary(fg, Point{X: x, Y: y}, width)
			for i := range boundary {
				boundary[i].X += b.Min.X
				boundary[i].Y += b.Min.Y
			}
			contours = append(contours, newContour(boundary, pixels))
		}
	}

	return contours
}

func newContour(pts []Point, pixels int) Contour {
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, p := range pts {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	return Contour{
		Points:    pts,
		Bounds:    Bounds{X1: minX, Y1: minY, X2: maxX + 1, Y2: maxY + 1},
		Area:      PolygonArea(pts),
		Perimeter: Perimeter(pts),
		Pixels:    pixels,
	}
}

// floodFill performs iterative flood-fill from a starting point and returns
// the number of pixels in the region.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow
// on large regions. Uses 8-connectivity (includes diagonal neighbors).
func floodFill(fg func(x, y int) bool, visited [][]bool, startX, startY, width, height int) int {
	stack := []Point{{X: startX, Y: startY}}
	count := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !fg(p.X, p.Y) {
			continue
		}

		visited[p.Y][p.X] = true
		count++

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return count
}

// moore lists the 8 neighbour offsets clockwise (in image coordinates)
// starting from west.
var moore = [8]Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func mooreIndex(dx, dy int) int {
	for i, d := range moore {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return -1
}

// traceBoundary walks the outer boundary of the region containing start.
//
// start must be the region's first pixel in raster order, so its west
// neighbour is background. The walk stops when it is back at start and about
// to repeat its first step.
func traceBoundary(fg func(x, y int) bool, start Point, width int) []Point {
	boundary := []Point{start}

	cur := start
	back := 0 // direction from cur to the last background pixel examined
	seen := map[int]bool{}

	for {
		next := -1
		for k := 1; k <= 8; k++ {
			i := (back + k) % 8
			if fg(cur.X+moore[i].X, cur.Y+moore[i].Y) {
				next = i
				break
			}
		}
		if next < 0 {
			// Isolated pixel.
			return boundary
		}

		step, prev := moore[next], moore[(next+7)%8]
		nxt := Point{X: cur.X + step.X, Y: cur.Y + step.Y}
		if cur == start && len(boundary) > 1 && nxt == boundary[1] {
			break
		}

		state := ((cur.Y*width)+cur.X)*8 + back
		if seen[state] {
			break
		}
		seen[state] = true

		boundary = append(boundary, nxt)
		back = mooreIndex(cur.X+prev.X-nxt.X, cur.Y+prev.Y-nxt.Y)
		cur = nxt
	}

	// The walk ends on start again; drop the closing duplicate.
	if len(boundary) > 1 && boundary[len(boundary)-1] == start {
		boundary = boundary[:len(boundary)-1]
	}
	return boundary
}

// PolygonArea returns the unsigned area of a closed polygon.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += float64(p.X*q.Y - q.X*p.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of a closed polygon.
func Perimeter(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var sum float64
	for i, p := range pts {
		sum += dist(p, pts[(i+1)%len(pts)])
	}
	return sum
}

func dist(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm.
//
// Every dropped point lies within epsilon pixels of the simplified outline.
// The contour is split at two far-apart vertices and each half is
// simplified separately, so the result is itself a closed polygon.
func ApproxPolygon(pts []Point, epsilon float64) []Point {
	n := len(pts)
	if n < 3 {
		return append([]Point(nil), pts...)
	}

	// Split points: a vertex far from pts[0], then a vertex far from that.
	b := farthest(pts, pts[0])
	a := farthest(pts, pts[b])
	if a == b {
		return []Point{pts[a]}
	}

	chain := func(from, to int) []Point {
		out := make([]Point, 0)
		for i := from; ; i = (i + 1) % n {
			out = append(out, pts[i])
			if i == to {
				return out
			}
		}
	}

	first := douglasPeucker(chain(a, b), epsilon)
	second := douglasPeucker(chain(b, a), epsilon)

	out := make([]Point, 0, len(first)+len(second)-2)
	out = append(out, first[:len(first)-1]...)
	out = append(out, second[:len(second)-1]...)
	return out
}

func farthest(pts []Point, from Point) int {
	best, bestDist := 0, -1.0
	for i, p := range pts {
		if d := dist(p, from); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// douglasPeucker simplifies an open polyline, keeping both endpoints.
func douglasPeucker(pts []Point, epsilon float64) []Point {
	if len(pts) < 3 {
		return append([]Point(nil), pts...)
	}

	first, last := pts[0], pts[len(pts)-1]
	idx, maxDist := 0, -1.0
	for i := 1; i < len(pts)-1; i++ {
		if d := segmentDistance(pts[i], first, last); d > maxDist {
			idx, maxDist = i, d
		}
	}

	if maxDist <= epsilon {
		return []Point{first, last}
	}

	left := douglasPeucker(pts[:idx+1], epsilon)
	right := douglasPeucker(pts[idx:], epsilon)
	return append(left[:len(left)-1], right...)
}

// segmentDistance is the distance from p to the line through a and b, or to
// a when a and b coincide.
func segmentDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return dist(p, a)
	}
	return math.Abs(dy*float64(p.X-a.X)-dx*float64(p.Y-a.Y)) / length
}

// SortByArea orders contours by enclosed area, largest first. Ties keep
// their original order.
func SortByArea(contours []Contour) {
	sort.SliceStable(contours, func(i, j int) bool {
		return contours[i].Area > contours[j].Area
	})
}
