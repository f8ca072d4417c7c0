package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// ProjectPointToLine projects the query point onto the great-circle segment
// (latA,lonA)-(latB,lonB) and returns the projection in degrees.
func ProjectPointToLine(latA, lonA, latB, lonB, queryLat, queryLon float64) (float64, float64) {
	a := s2.PointFromLatLng(s2.LatLngFromDegrees(latA, lonA))
	b := s2.PointFromLatLng(s2.LatLngFromDegrees(latB, lonB))
	q := s2.PointFromLatLng(s2.LatLngFromDegrees(queryLat, queryLon))

	projection := s2.Project(q, a, b)
	projectLatLng := s2.LatLngFromPoint(projection)
	return projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees()
}

// PointToSegmentDistanceMeters is the distance from a query point to its
// projection on the segment.
func PointToSegmentDistanceMeters(latA, lonA, latB, lonB, queryLat, queryLon float64) float64 {
	projLat, projLon := ProjectPointToLine(latA, lonA, latB, lonB, queryLat, queryLon)
	return HaversineDistanceMeters(queryLat, queryLon, projLat, projLon)
}

// GetDestinationPoint returns the point reached after travelling distKm from
// (lat, lon) on the given bearing (degrees clockwise from north).
func GetDestinationPoint(lat, lon, bearing, distKm float64) (float64, float64) {
	angularDist := distKm / earthRadiusKM
	bearingRad := degreeToRadians(bearing)
	latRad := degreeToRadians(lat)
	lonRad := degreeToRadians(lon)

	destLat := math.Asin(math.Sin(latRad)*math.Cos(angularDist) +
		math.Cos(latRad)*math.Sin(angularDist)*math.Cos(bearingRad))
	destLon := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDist)*math.Cos(latRad),
		math.Cos(angularDist)-math.Sin(latRad)*math.Sin(destLat))

	return destLat * (180.0 / math.Pi), destLon * (180.0 / math.Pi)
}
