package rectify

import (
	"fmt"
	"math"
	"sort"
)

// OrderCorners labels four unordered points as the corners of a quadrilateral.
//
// Parameters:
//   - pts: Exactly four points, in any order.
//
// Returns:
//   - OrderedQuad: The same four points as top-left, top-right, bottom-right
//     and bottom-left. The result is a permutation of pts and is identical for
//     every ordering of the same points.
//   - error: Wraps ErrInvalidInput if len(pts) != 4 or a coordinate is NaN or
//     infinite.
//
// # Algorithm
//
//  1. Top-left = smallest X+Y, bottom-right = largest X+Y.
//  2. Top-right = smallest Y-X, bottom-left = largest Y-X.
//  3. Ties on either key go to the lexicographically smaller point (X, then Y).
//  4. If steps 1-3 picked the same point twice, order the points clockwise by
//     angle around their centroid instead, starting at the step 1 top-left.
func OrderCorners(pts []Point) (OrderedQuad, error) {
	if len(pts) != 4 {
		return OrderedQuad{}, fmt.Errorf("%w: need exactly 4 points, got %d", ErrInvalidInput, len(pts))
	}
	for i, p := range pts {
		if !finite(p.X) || !finite(p.Y) {
			return OrderedQuad{}, fmt.Errorf("%w: point %d %v is not finite", ErrInvalidInput, i, p)
		}
	}

	sum := func(p Point) float64 { return p.X + p.Y }
	diff := func(p Point) float64 { return p.Y - p.X }

	q := OrderedQuad{
		TopLeft:     extreme(pts, sum, false),
		TopRight:    extreme(pts, diff, false),
		BottomRight: extreme(pts, sum, true),
		BottomLeft:  extreme(pts, diff, true),
	}
	if isPermutation(q.Points(), pts) {
		return q, nil
	}

	return orderByAngle(pts, q.TopLeft), nil
}

// extreme returns the point with the smallest (or largest, if max) key.
func extreme(pts []Point, key func(Point) float64, max bool) Point {
	best := pts[0]
	bestKey := key(best)
	for _, p := range pts[1:] {
		k := key(p)
		better := k < bestKey
		if max {
			better = k > bestKey
		}
		if better || (k == bestKey && lexLess(p, best)) {
			best, bestKey = p, k
		}
	}
	return best
}

func isPermutation(got [4]Point, pts []Point) bool {
	var used [4]bool
	for _, g := range got {
		found := false
		for j, p := range pts {
			if !used[j] && p == g {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// orderByAngle sorts the points clockwise (in image coordinates, Y down)
// around their centroid and rotates the cycle so that it starts at start.
func orderByAngle(pts []Point, start Point) OrderedQuad {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	sorted := make([]Point, len(pts))
	copy(sorted, pts)
	angle := func(p Point) float64 { return math.Atan2(p.Y-cy, p.X-cx) }
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := angle(sorted[i]), angle(sorted[j])
		if ai != aj {
			return ai < aj
		}
		return lexLess(sorted[i], sorted[j])
	})

	first := 0
	for i, p := range sorted {
		if p == start {
			first = i
			break
		}
	}

	at := func(i int) Point { return sorted[(first+i)%4] }
	return OrderedQuad{
		TopLeft:     at(0),
		TopRight:    at(1),
		BottomRight: at(2),
		BottomLeft:  at(3),
	}
}
