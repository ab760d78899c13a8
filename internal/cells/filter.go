package cells

import "github.com/microquant/cytometrics/internal/geometry"

// Filter removes objects whose boundary is geometrically degenerate
// (fewer than 5 points) or whose closed perimeter is below minPerimeter.
// The threshold is inclusive: a perimeter exactly equal to minPerimeter
// passes. Surviving objects are returned in their original order.
func Filter(objects []Object, minPerimeter float64) []Object {
	filtered := make([]Object, 0, len(objects))
	for _, obj := range objects {
		if geometry.IsDegenerate(obj.Boundary) {
			continue
		}
		if geometry.Perimeter(obj.Boundary, true) < minPerimeter {
			continue
		}
		filtered = append(filtered, obj)
	}
	return filtered
}
