// Package contour traces closed boundary polygons in binary masks.
//
// The tracer follows the border-following algorithm of Suzuki and Abe,
// scanning the mask row by row and walking each border it encounters.
// Every traced boundary is either an outer border (foreground against
// enclosing background) or a hole border (foreground against an enclosed
// background region). Containment between borders is reported as a
// four-link forest; see Node.
//
// Coordinates use the standard image convention: origin at top-left,
// X increasing rightward, Y increasing downward. Pixels with value > 0
// are foreground.
package contour

import (
	"image"

	"github.com/microquant/cytometrics/internal/geometry"
)

// Node holds the containment links for one traced contour. Each link is
// an index into the contour slice, or -1 when absent. Together the links
// encode a forest: children of a top-level contour are the holes inside it.
type Node struct {
	Parent     int `json:"parent"`
	FirstChild int `json:"first_child"`
	Next       int `json:"next"` // next sibling
	Prev       int `json:"prev"` // previous sibling
}

// Mode selects which borders a trace reports.
type Mode int

const (
	// RetrieveExternal reports only the outermost outer borders. Holes and
	// anything nested inside them are discarded; every reported contour is
	// top-level with no children.
	RetrieveExternal Mode = iota

	// RetrieveNested reports a two-level hierarchy: every outer border at
	// the top level (including outers nested inside holes, which are
	// flattened up) with its direct hole borders as children.
	RetrieveNested
)

// Result is the outcome of a trace: one polygon per reported border plus
// the containment link for each, in matching order.
type Result struct {
	Contours  []geometry.Polygon
	Hierarchy []Node
}

// Clockwise 8-neighborhood starting east, with Y increasing downward.
var dirs = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

const (
	dirEast = 0
	dirWest = 4
)

// rawBorder is one border as found by the scan, before mode filtering.
type rawBorder struct {
	points geometry.Polygon
	hole   bool
	parent int // border id of the enclosing border
}

// Find traces all borders in the mask and assembles the hierarchy
// requested by mode. An empty or all-background mask yields an empty
// result. The mask is not modified.
func Find(mask *image.Gray, mode Mode) Result {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Result{}
	}

	// Working copy: 1 = unvisited foreground, 0 = background. Border
	// labels are written into it as the scan proceeds.
	f := make([][]int32, h)
	for y := 0; y < h; y++ {
		f[y] = make([]int32, w)
		for x := 0; x < w; x++ {
			if mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0 {
				f[y][x] = 1
			}
		}
	}
	at := func(y, x int) int32 {
		if y < 0 || y >= h || x < 0 || x >= w {
			return 0
		}
		return f[y][x]
	}

	// Border id 1 is the image frame, treated as a hole border with no
	// parent. Real borders get ids from 2 upward.
	borders := []rawBorder{{}, {hole: true, parent: 0}}

	for y := 0; y < h; y++ {
		lnbd := 1
		for x := 0; x < w; x++ {
			v := f[y][x]
			if v == 0 {
				continue
			}

			traced := false
			var hole bool
			var fromDir int
			if v == 1 && at(y, x-1) == 0 {
				// Outer border start: foreground pixel with background
				// to the west.
				hole = false
				fromDir = dirWest
				traced = true
			} else if v >= 1 && at(y, x+1) == 0 {
				// Hole border start: foreground pixel with background
				// to the east.
				hole = true
				fromDir = dirEast
				if v > 1 {
					lnbd = int(v)
				}
				traced = true
			}

			if traced {
				nbd := len(borders)
				parent := borderParent(borders, lnbd, hole)
				pts := followBorder(f, at, y, x, fromDir, int32(nbd))
				borders = append(borders, rawBorder{
					points: compressChain(pts),
					hole:   hole,
					parent: parent,
				})
			}

			if f[y][x] != 1 {
				lnbd = int(abs32(f[y][x]))
			}
		}
	}

	switch mode {
	case RetrieveExternal:
		return assembleExternal(borders)
	default:
		return assembleNested(borders)
	}
}

// borderParent determines the enclosing border of a newly found border
// from the most recently passed border lnbd, per the Suzuki-Abe decision
// table: same-kind borders share a parent, opposite kinds nest directly.
func borderParent(borders []rawBorder, lnbd int, hole bool) int {
	if borders[lnbd].hole == hole {
		return borders[lnbd].parent
	}
	return lnbd
}

// followBorder walks one border clockwise starting at (y0, x0), labeling
// visited pixels in f with +/-nbd and returning the pixel chain.
func followBorder(f [][]int32, at func(int, int) int32, y0, x0, fromDir int, nbd int32) []geometry.Point {
	// Scan clockwise from the start direction for the first foreground
	// neighbor. If there is none the border is a single pixel.
	dir1 := -1
	for k := 0; k < 8; k++ {
		d := (fromDir + k) % 8
		if at(y0+dirs[d].Y, x0+dirs[d].X) != 0 {
			dir1 = d
			break
		}
	}
	if dir1 < 0 {
		f[y0][x0] = -nbd
		return []geometry.Point{{X: float64(x0), Y: float64(y0)}}
	}

	i1y, i1x := y0+dirs[dir1].Y, x0+dirs[dir1].X
	i3y, i3x := y0, x0
	dirPrev := dir1 // direction from the current pixel to the previous one

	var pts []geometry.Point
	for {
		// Counterclockwise scan for the next border pixel, starting just
		// past the previous pixel. The scan terminates because the
		// previous pixel itself is foreground.
		var i4y, i4x, dir4 int
		zeroEast := false
		for k := 1; k <= 8; k++ {
			d := (dirPrev - k + 16) % 8
			ny, nx := i3y+dirs[d].Y, i3x+dirs[d].X
			if at(ny, nx) != 0 {
				i4y, i4x, dir4 = ny, nx, d
				break
			}
			if d == dirEast {
				zeroEast = true
			}
		}

		// Label: a pixel whose east neighbor was seen to be background is
		// the right edge of the border and gets the negative label.
		if zeroEast {
			f[i3y][i3x] = -nbd
		} else if f[i3y][i3x] == 1 {
			f[i3y][i3x] = nbd
		}
		pts = append(pts, geometry.Point{X: float64(i3x), Y: float64(i3y)})

		if i4y == y0 && i4x == x0 && i3y == i1y && i3x == i1x {
			return pts
		}
		dirPrev = (dir4 + 4) % 8
		i3y, i3x = i4y, i4x
	}
}

// compressChain drops chain points that continue in the same direction as
// their predecessor, keeping only direction changes. The polygon outline
// is unchanged; a straight run of pixels collapses to its endpoints.
func compressChain(pts []geometry.Point) geometry.Polygon {
	n := len(pts)
	if n < 3 {
		return geometry.Polygon(pts)
	}

	out := make(geometry.Polygon, 0, n)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		if cur.X-prev.X != next.X-cur.X || cur.Y-prev.Y != next.Y-cur.Y {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		// Degenerate out-and-back chain; keep the start pixel.
		return geometry.Polygon{pts[0]}
	}
	return out
}

// assembleExternal keeps only outer borders whose parent is the image
// frame. The kept contours form a flat sibling chain with no children.
func assembleExternal(borders []rawBorder) Result {
	var res Result
	for _, rb := range borders[2:] {
		if rb.hole || rb.parent != 1 {
			continue
		}
		res.Contours = append(res.Contours, rb.points)
		res.Hierarchy = append(res.Hierarchy, Node{Parent: -1, FirstChild: -1, Next: -1, Prev: -1})
	}
	linkSiblings(res.Hierarchy, indexRange(len(res.Contours)))
	return res
}

// assembleNested flattens all outer borders to the top level and attaches
// each hole border as a child of its enclosing outer border.
func assembleNested(borders []rawBorder) Result {
	n := len(borders) - 2
	if n <= 0 {
		return Result{}
	}

	res := Result{
		Contours:  make([]geometry.Polygon, n),
		Hierarchy: make([]Node, n),
	}
	var topLevel []int
	children := make(map[int][]int)

	for id := 2; id < len(borders); id++ {
		idx := id - 2
		rb := borders[id]
		res.Contours[idx] = rb.points
		res.Hierarchy[idx] = Node{Parent: -1, FirstChild: -1, Next: -1, Prev: -1}
		if rb.hole {
			parentIdx := rb.parent - 2
			res.Hierarchy[idx].Parent = parentIdx
			children[parentIdx] = append(children[parentIdx], idx)
		} else {
			topLevel = append(topLevel, idx)
		}
	}

	linkSiblings(res.Hierarchy, topLevel)
	for parentIdx, kids := range children {
		res.Hierarchy[parentIdx].FirstChild = kids[0]
		linkSiblings(res.Hierarchy, kids)
	}
	return res
}

// linkSiblings chains the given indices together via Next/Prev in order.
func linkSiblings(hier []Node, indices []int) {
	for i := 1; i < len(indices); i++ {
		hier[indices[i-1]].Next = indices[i]
		hier[indices[i]].Prev = indices[i-1]
	}
}

func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
