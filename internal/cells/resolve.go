// Package cells reconstructs logical objects from traced boundary
// polygons and their containment hierarchy.
//
// A traced mask yields a flat list of boundary polygons: external
// boundaries of foreground objects and the boundaries of holes inside
// them. Resolve walks the hierarchy, subtracts hole areas from their
// enclosing boundary, and classifies every raw polygon with exactly one
// role. Filter then removes objects too degenerate or too small to carry
// shape information.
package cells

import (
	"fmt"

	"github.com/microquant/cytometrics/internal/contour"
	"github.com/microquant/cytometrics/internal/geometry"
)

// Role classifies one raw polygon after hierarchy resolution.
type Role uint8

const (
	// RoleInvalid marks polygons that were rejected or never classified:
	// nested beyond one level, below the area threshold, or zero-area holes.
	RoleInvalid Role = iota

	// RoleHole marks a polygon subtracted from its parent object's area.
	RoleHole

	// RoleObject marks a genuine foreground object's external boundary.
	RoleObject
)

// String returns the role name for diagnostics.
func (r Role) String() string {
	switch r {
	case RoleHole:
		return "hole"
	case RoleObject:
		return "object"
	default:
		return "invalid"
	}
}

// Object is a reconstructed foreground shape: the external boundary
// polygon together with its net area (external area minus the summed
// area of its direct holes).
type Object struct {
	Boundary geometry.Polygon
	Area     float64
	Index    int // index of the external boundary in the raw polygon list
}

// Resolve reconstructs logical objects from raw polygons and their
// containment hierarchy.
//
// Only top-level polygons (parent link -1) are candidate objects. For
// each candidate the sibling chain of its first child is walked once:
// every hole with nonzero area is accumulated and subtracted from the
// external area. If the resulting net area is at least minArea the
// candidate is committed as an object and its holes tagged; otherwise
// the whole subtree stays RoleInvalid; a rejected boundary takes its
// holes down with it, and holes are never promoted to objects. Polygons
// nested more than one level deep are never visited.
//
// The returned role slice has one entry per raw polygon. An input that
// produces no qualifying objects yields an empty object list, not an
// error. Malformed hierarchy links (out-of-range indices or a cycle in
// a sibling chain) are a precondition violation of the tracer and abort
// with an error.
func Resolve(polygons []geometry.Polygon, hierarchy []contour.Node, minArea float64) ([]Object, []Role, error) {
	if len(hierarchy) != len(polygons) {
		return nil, nil, fmt.Errorf("hierarchy has %d entries for %d polygons", len(hierarchy), len(polygons))
	}
	if err := validateLinks(hierarchy); err != nil {
		return nil, nil, err
	}

	roles := make([]Role, len(polygons))
	var objects []Object

	for i, node := range hierarchy {
		if node.Parent != -1 {
			continue
		}

		areaExternal := geometry.Area(polygons[i])
		if areaExternal < minArea {
			continue
		}

		var areaHole float64
		var holes []int
		steps := 0
		for child := node.FirstChild; child != -1; child = hierarchy[child].Next {
			if steps++; steps > len(hierarchy) {
				return nil, nil, fmt.Errorf("cycle in sibling chain under polygon %d", i)
			}
			if a := geometry.Area(polygons[child]); a != 0 {
				holes = append(holes, child)
				areaHole += a
			}
		}

		areaContour := areaExternal - areaHole
		if areaContour < minArea {
			continue
		}

		roles[i] = RoleObject
		for _, h := range holes {
			roles[h] = RoleHole
		}
		objects = append(objects, Object{
			Boundary: polygons[i],
			Area:     areaContour,
			Index:    i,
		})
	}

	return objects, roles, nil
}

// validateLinks checks that every hierarchy link is -1 or a valid index.
func validateLinks(hierarchy []contour.Node) error {
	n := len(hierarchy)
	for i, node := range hierarchy {
		for _, link := range [4]int{node.Parent, node.FirstChild, node.Next, node.Prev} {
			if link < -1 || link >= n {
				return fmt.Errorf("polygon %d: hierarchy link %d out of range [-1, %d)", i, link, n)
			}
		}
	}
	return nil
}
