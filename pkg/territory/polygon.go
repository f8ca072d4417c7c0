// Package territory derives coverage polygons from unordered address
// coordinate sets. All functions are pure and safe for concurrent use.
package territory

import (
	"math"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/util"
)

type Method string

const (
	MethodBoundingBox Method = "bounding_box"
	MethodConvexHull  Method = "convex_hull"

	// each bounding box axis is expanded outward by this fraction of its span
	boundingBoxPadding = 0.1
)

// Polygon dispatches to the requested algorithm. Convex hull is the default.
func Polygon(coords []datastructure.Coordinate, method Method) []datastructure.Coordinate {
	if method == MethodBoundingBox {
		return BoundingBoxPolygon(coords)
	}
	return ConvexHullPolygon(coords)
}

// BoundingBoxPolygon returns a closed 5-point ring (SW, SE, NE, NW, SW)
// around the points, padded outward by 10% of each axis span. A zero span on
// an axis gets no padding, so collinear inputs produce a degenerate
// rectangle.
func BoundingBoxPolygon(coords []datastructure.Coordinate) []datastructure.Coordinate {
	if len(coords) == 0 {
		return []datastructure.Coordinate{}
	}

	minLat, maxLat := coords[0].Lat, coords[0].Lat
	minLon, maxLon := coords[0].Lon, coords[0].Lon
	for _, c := range coords[1:] {
		minLat = math.Min(minLat, c.Lat)
		maxLat = math.Max(maxLat, c.Lat)
		minLon = math.Min(minLon, c.Lon)
		maxLon = math.Max(maxLon, c.Lon)
	}

	latPad := (maxLat - minLat) * boundingBoxPadding
	lonPad := (maxLon - minLon) * boundingBoxPadding
	minLat -= latPad
	maxLat += latPad
	minLon -= lonPad
	maxLon += lonPad

	return []datastructure.Coordinate{
		datastructure.NewCoordinate(minLat, minLon),
		datastructure.NewCoordinate(minLat, maxLon),
		datastructure.NewCoordinate(maxLat, maxLon),
		datastructure.NewCoordinate(maxLat, minLon),
		datastructure.NewCoordinate(minLat, minLon),
	}
}

// ConvexHullPolygon runs a Graham scan over the points, treating longitude as
// x and latitude as y. Fewer than 3 points fall back to the bounding box.
func ConvexHullPolygon(coords []datastructure.Coordinate) []datastructure.Coordinate {
	if len(coords) < 3 {
		return BoundingBoxPolygon(coords)
	}

	points := util.QuickSortG(coords, func(a, b datastructure.Coordinate) int {
		if a.Lat != b.Lat {
			if a.Lat < b.Lat {
				return -1
			}
			return 1
		}
		if a.Lon < b.Lon {
			return -1
		} else if a.Lon > b.Lon {
			return 1
		}
		return 0
	})

	pivot := points[0]
	rest := util.QuickSortG(points[1:], func(a, b datastructure.Coordinate) int {
		angleA := math.Atan2(a.Lat-pivot.Lat, a.Lon-pivot.Lon)
		angleB := math.Atan2(b.Lat-pivot.Lat, b.Lon-pivot.Lon)
		if angleA < angleB {
			return -1
		} else if angleA > angleB {
			return 1
		}
		return 0
	})

	hull := []datastructure.Coordinate{pivot}
	for _, point := range rest {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], point) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, point)
	}

	if hull[len(hull)-1] != hull[0] {
		hull = append(hull, hull[0])
	}
	return hull
}

// cross is the 2D cross product of (p2-p1) and (p-p1); positive means a
// strictly counter-clockwise turn.
func cross(p1, p2, p datastructure.Coordinate) float64 {
	return (p2.Lon-p1.Lon)*(p.Lat-p1.Lat) - (p2.Lat-p1.Lat)*(p.Lon-p1.Lon)
}
