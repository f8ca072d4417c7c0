package kv

import (
	"github.com/fieldcanvas/territoryx/pkg/datastructure"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// RoadRecord is one stored road polyline, indexed by the H3 cell of its
// first coordinate.
type RoadRecord struct {
	CenterLoc [2]float64 // [lat, lon]
	Points    []datastructure.Coordinate
	RoadClass string
}

func NewRoadRecord(points []datastructure.Coordinate, roadClass string) RoadRecord {
	center := [2]float64{}
	if len(points) > 0 {
		center[0] = points[0].Lat
		center[1] = points[0].Lon
	}
	return RoadRecord{
		CenterLoc: center,
		Points:    points,
		RoadClass: roadClass,
	}
}

func encodeRoads(roads []RoadRecord) ([]byte, error) {
	return binary.Marshal(roads)
}

func decodeRoads(bb []byte) ([]RoadRecord, error) {
	var roads []RoadRecord
	err := binary.Unmarshal(bb, &roads)
	return roads, err
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
