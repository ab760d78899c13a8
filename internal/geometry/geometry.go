// Package geometry provides polygon measurements used by the contour pipeline.
//
// All functions are deterministic and side-effect free. Coordinates follow the
// standard image convention: origin at top-left, X increasing rightward,
// Y increasing downward. Polygons are implicitly closed; the last point
// connects back to the first.
package geometry

import (
	"math"
	"sort"
)

// Point is a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered sequence of boundary points describing a traced
// shape outline. A polygon with fewer than 5 points carries too little
// information for shape fitting; see IsDegenerate.
type Polygon []Point

// IsDegenerate reports whether the polygon has too few points for shape
// metrics (aspect ratio, ellipse-style fitting). Callers must check this
// before computing shape ratios.
func IsDegenerate(p Polygon) bool {
	return len(p) < 5
}

// Area returns the absolute value of the shoelace-formula signed area.
// The result is never negative. Polygons with fewer than 3 points have
// zero area.
func Area(p Polygon) float64 {
	if len(p) < 3 {
		return 0
	}

	var sum float64
	n := len(p)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the sum of consecutive edge lengths. When closed is
// true the edge from the last point back to the first is included.
func Perimeter(p Polygon, closed bool) float64 {
	if len(p) < 2 {
		return 0
	}

	var sum float64
	for i := 1; i < len(p); i++ {
		sum += dist(p[i-1], p[i])
	}
	if closed {
		sum += dist(p[len(p)-1], p[0])
	}
	return sum
}

// ConvexHull computes the convex hull of a set of points using the
// monotone chain algorithm. The hull is returned in counter-clockwise
// order without the repeated closing point. Inputs with fewer than 3
// points are returned as-is.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		return append([]Point(nil), points...)
	}

	pts := append([]Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// Drop duplicates so collinear handling stays simple.
	uniq := pts[:1]
	for _, p := range pts[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return append([]Point(nil), pts...)
	}

	var lower []Point
	for _, p := range pts {
		for len(lower) > 1 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []Point
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) > 1 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// MinAreaRect computes the width and height of the minimal-area enclosing
// rectangle at arbitrary orientation, using rotating projections over the
// convex hull edges. For degenerate input (fewer than 3 distinct points)
// both dimensions are 0, which makes the aspect ratio undefined; callers
// guard via the IsDegenerate precondition.
func MinAreaRect(p Polygon) (width, height float64) {
	hull := ConvexHull(p)
	if len(hull) < 3 {
		return 0, 0
	}

	best := math.Inf(1)
	n := len(hull)
	for i := 0; i < n; i++ {
		a := hull[i]
		b := hull[(i+1)%n]
		ex, ey := b.X-a.X, b.Y-a.Y
		length := math.Hypot(ex, ey)
		if length == 0 {
			continue
		}
		ux, uy := ex/length, ey/length

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, q := range hull {
			u := (q.X-a.X)*ux + (q.Y-a.Y)*uy
			v := -(q.X-a.X)*uy + (q.Y-a.Y)*ux
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		w := maxU - minU
		h := maxV - minV
		if w*h < best {
			best = w * h
			width, height = w, h
		}
	}
	return width, height
}

// cross computes the cross product of vectors OA and OB.
func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
