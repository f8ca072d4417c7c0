package datastructure

import (
	"math"

	"github.com/twpayne/go-polyline"
)

// CoordinateEpsilon is the identity tolerance in degrees (~0.11 m per axis).
// Two coordinates closer than this on both axes name the same graph node.
const CoordinateEpsilon = 1e-6

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func (c Coordinate) Equal(other Coordinate) bool {
	return math.Abs(c.Lat-other.Lat) < CoordinateEpsilon &&
		math.Abs(c.Lon-other.Lon) < CoordinateEpsilon
}

// nodeKey is a coordinate quantized to 6 decimal places. Using the quantized
// value as the map key keeps insert and lookup consistent with the epsilon
// identity above, instead of hashing raw float bits.
type nodeKey struct {
	latE6 int64
	lonE6 int64
}

func quantize(c Coordinate) nodeKey {
	return nodeKey{
		latE6: int64(math.Round(c.Lat * 1e6)),
		lonE6: int64(math.Round(c.Lon * 1e6)),
	}
}

func CreatePolyline(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
