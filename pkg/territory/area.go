package territory

import (
	"github.com/fieldcanvas/territoryx/pkg/datastructure"

	"github.com/golang/geo/s2"
)

const earthRadiusM = 6371007.0

// RingAreaSqMeters is the spherical area of a closed polygon ring. Degenerate
// rings (fewer than 3 distinct vertices) have zero area.
func RingAreaSqMeters(ring []datastructure.Coordinate) float64 {
	vertices := ring
	if len(vertices) > 1 && vertices[len(vertices)-1] == vertices[0] {
		vertices = vertices[:len(vertices)-1]
	}

	// drop consecutive duplicates so degenerate rings don't produce
	// zero-length loop edges
	distinct := make([]datastructure.Coordinate, 0, len(vertices))
	for _, v := range vertices {
		if len(distinct) == 0 || distinct[len(distinct)-1] != v {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) < 3 {
		return 0
	}

	points := make([]s2.Point, 0, len(distinct))
	for _, v := range distinct {
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(v.Lat, v.Lon)))
	}

	loop := s2.LoopFromPoints(points)
	loop.Normalize() // ring orientation must not flip the interior

	return loop.Area() * earthRadiusM * earthRadiusM
}
