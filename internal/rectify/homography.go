package rectify

import (
	"fmt"
	"math"
)

// Homography is a 3x3 projective transform stored row-major.
//
// A point (x, y) maps to
//
//	x' = (h[0]x + h[1]y + h[2]) / (h[6]x + h[7]y + h[8])
//	y' = (h[3]x + h[4]y + h[5]) / (h[6]x + h[7]y + h[8])
type Homography [9]float64

// pivotEpsilon is the magnitude below which an elimination pivot on
// normalized coordinates counts as zero.
const pivotEpsilon = 1e-10

// SolveHomography computes the projective transform that maps each src
// corner onto the dst corner with the same index.
//
// Both point sets are first normalized to their centroid with a mean
// distance of sqrt(2). The eight unknowns (h[8] is fixed to 1) are then
// solved from the 8x8 linear system given by the four correspondences,
// using Gaussian elimination with partial pivoting. A vanishing pivot means
// the correspondences do not determine a unique transform and the error
// wraps ErrDegenerateGeometry.
func SolveHomography(src, dst [4]Point) (Homography, error) {
	srcN, srcT, err := normalize(src)
	if err != nil {
		return Homography{}, fmt.Errorf("source: %w", err)
	}
	dstN, dstT, err := normalize(dst)
	if err != nil {
		return Homography{}, fmt.Errorf("destination: %w", err)
	}

	hn, err := solveNormalized(srcN, dstN)
	if err != nil {
		return Homography{}, err
	}

	dstInv, err := dstT.Inverse()
	if err != nil {
		return Homography{}, err
	}
	h := dstInv.mul(hn).mul(srcT)
	if w := h[8]; w != 0 {
		for i := range h {
			h[i] /= w
		}
	}
	return h, nil
}

// normalize translates pts to their centroid and scales them to a mean
// distance of sqrt(2) from it. It returns the moved points and the
// similarity transform that produced them.
func normalize(pts [4]Point) ([4]Point, Homography, error) {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X / 4
		cy += p.Y / 4
	}
	mean := 0.0
	for _, p := range pts {
		mean += math.Hypot(p.X-cx, p.Y-cy) / 4
	}
	if mean == 0 || !finite(mean) {
		return pts, Homography{}, fmt.Errorf("%w: corners coincide at %v", ErrDegenerateGeometry, pts[0])
	}

	s := math.Sqrt2 / mean
	var out [4]Point
	for i, p := range pts {
		out[i] = Point{X: (p.X - cx) * s, Y: (p.Y - cy) * s}
	}
	return out, Homography{s, 0, -s * cx, 0, s, -s * cy, 0, 0, 1}, nil
}

func solveNormalized(src, dst [4]Point) (Homography, error) {
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{x, y, 1, 0, 0, 0, -x * u, -y * u, u}
		a[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -x * v, -y * v, v}
	}

	// Normalized coordinates keep every entry near 1, so the pivot
	// tolerance is absolute.
	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) <= pivotEpsilon {
			return Homography{}, fmt.Errorf("%w: singular system at column %d", ErrDegenerateGeometry, col)
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := 0; r < 8; r++ {
			if r == col {
				continue
			}
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < 9; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = a[i][8] / a[i][i]
	}
	h[8] = 1
	return h, nil
}

// mul returns the composition h∘g, which applies g first.
func (h Homography) mul(g Homography) Homography {
	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			for k := 0; k < 3; k++ {
				out[3*r+c] += h[3*r+k] * g[3*k+c]
			}
		}
	}
	return out
}

// Apply maps p through the transform. The boolean is false when p lies on
// the line sent to infinity.
func (h Homography) Apply(p Point) (Point, bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if w == 0 {
		return Point{}, false
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}

// Inverse returns the inverse transform, computed from the adjugate.
func (h Homography) Inverse() (Homography, error) {
	adj := Homography{
		h[4]*h[8] - h[5]*h[7],
		h[2]*h[7] - h[1]*h[8],
		h[1]*h[5] - h[2]*h[4],
		h[5]*h[6] - h[3]*h[8],
		h[0]*h[8] - h[2]*h[6],
		h[2]*h[3] - h[0]*h[5],
		h[3]*h[7] - h[4]*h[6],
		h[1]*h[6] - h[0]*h[7],
		h[0]*h[4] - h[1]*h[3],
	}
	det := h[0]*adj[0] + h[1]*adj[3] + h[2]*adj[6]
	if det == 0 || !finite(det) {
		return Homography{}, fmt.Errorf("%w: transform is not invertible", ErrDegenerateGeometry)
	}

	for i := range adj {
		adj[i] /= det
	}
	return adj, nil
}
