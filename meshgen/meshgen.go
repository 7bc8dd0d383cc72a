// Package meshgen builds point and cell lists for test and demo meshes.
// Cells are counter-clockwise when seen from +Z.
package meshgen

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// Polygon triangulates the convex loop pts as a fan around pts[0].
func Polygon(pts []r3.Vector) ([]r3.Vector, [][]int) {
	n := len(pts)
	if n < 3 {
		return nil, nil
	}
	cells := make([][]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		cells = append(cells, []int{0, i, i + 1})
	}
	return pts, cells
}

// Ngon is a fan-triangulated regular polygon with n sides of length sideLength.
// All its points are cocircular, so every diagonal is a tie.
func Ngon(n int, sideLength float64) ([]r3.Vector, [][]int) {
	return Ellipse(n, sideLength, 1)
}

// Ellipse is Ngon squashed by aspect along Y.
func Ellipse(n int, sideLength, aspect float64) ([]r3.Vector, [][]int) {
	if n < 3 {
		return nil, nil
	}
	radius := (sideLength / 2) / math.Sin(math.Pi/float64(n))
	pts := make([]r3.Vector, n)
	for i := range pts {
		y, x := math.Sincos(math.Pi * float64(2*i) / float64(n))
		pts[i] = r3.Vector{X: radius * x, Y: aspect * radius * y}
	}
	return Polygon(pts)
}

// Grid is an nx by ny grid of unit cells, each split along the same diagonal.
// Every point moves by up to jitter/2 along X and Y; jitter is clamped to
// [0, 0.5] so cells stay convex. rng may be nil when jitter is zero.
func Grid(nx, ny int, jitter float64, rng *rand.Rand) ([]r3.Vector, [][]int) {
	jitter = math.Max(0, math.Min(jitter, 0.5))
	pts := make([]r3.Vector, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			p := r3.Vector{X: float64(i), Y: float64(j)}
			if jitter > 0 {
				p.X += jitter * (rng.Float64() - 0.5)
				p.Y += jitter * (rng.Float64() - 0.5)
			}
			pts = append(pts, p)
		}
	}
	at := func(i, j int) int {
		return j*(nx+1) + i
	}
	cells := make([][]int, 0, 2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a, b, c, d := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			cells = append(cells, []int{a, b, c}, []int{a, c, d})
		}
	}
	return pts, cells
}

// Lift sets the Z coordinate of every point to height(x, y).
func Lift(pts []r3.Vector, height func(x, y float64) float64) []r3.Vector {
	for i := range pts {
		pts[i].Z = height(pts[i].X, pts[i].Y)
	}
	return pts
}

// Scale multiplies every coordinate of pts by s.
func Scale(pts []r3.Vector, s r3.Vector) []r3.Vector {
	for i, p := range pts {
		pts[i] = r3.Vector{X: p.X * s.X, Y: p.Y * s.Y, Z: p.Z * s.Z}
	}
	return pts
}
