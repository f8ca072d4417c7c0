// Package osmparser reads openstreetmap pbf extracts and turns drivable
// ways into road polylines for the graph builder and the key-value store.
package osmparser

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// RoadData is one drivable openstreetmap way, already resolved to coordinates.
type RoadData struct {
	Points []datastructure.Coordinate
	Class  string
}

type nodeCoord struct {
	lat float64
	lon float64
}

type OsmParser struct {
	wayNodeMap      map[int64]struct{}
	acceptedNodeMap map[int64]nodeCoord
}

func NewOSMParser() *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]struct{}),
		acceptedNodeMap: make(map[int64]nodeCoord),
	}
}

var skipHighway = map[string]struct{}{
	"footway":                {},
	"construction":           {},
	"cycleway":               {},
	"path":                   {},
	"pedestrian":             {},
	"busway":                 {},
	"steps":                  {},
	"bridleway":              {},
	"corridor":               {},
	"street_lamp":            {},
	"bus_stop":               {},
	"crossing":               {},
	"cyclist_waiting_aid":    {},
	"elevator":               {},
	"emergency_bay":          {},
	"emergency_access_point": {},
	"give_way":               {},
	"phone":                  {},
	"ladder":                 {},
	"milestone":              {},
	"passing_place":          {},
	"platform":               {},
	"speed_camera":           {},
	"track":                  {},
	"bus_guideway":           {},
	"speed_display":          {},
	"stop":                   {},
	"toll_gantry":            {},
	"traffic_mirror":         {},
	"traffic_signals":        {},
	"trailhead":              {},
}

// Parse scans the pbf file twice: first to mark which nodes belong to
// drivable ways, then to resolve node coordinates and emit one RoadData
// per accepted way.
func (p *OsmParser) Parse(mapFile string) ([]RoadData, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()

		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}

		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}
		if !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			log.Printf("reading openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		for _, node := range way.Nodes {
			p.wayNodeMap[int64(node.ID)] = struct{}{}
		}
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	defer scanner.Close()

	roads := []RoadData{}
	countNodes := 0
	countWays = 0
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeNode:
			if (countNodes+1)%50000 == 0 {
				log.Printf("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			node := o.(*osm.Node)

			if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
				p.acceptedNodeMap[int64(node.ID)] = nodeCoord{
					lat: node.Lat,
					lon: node.Lon,
				}
			}
		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 {
				continue
			}
			if !acceptOsmWay(way) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				log.Printf("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++

			if road, ok := p.buildRoad(way); ok {
				roads = append(roads, road)
			}
		}
	}

	log.Printf("total roads: %d", len(roads))
	return roads, nil
}

// buildRoad depends on node scan order: pbf files list all nodes before
// ways, so by the time a way arrives its coordinates are resolved.
func (p *OsmParser) buildRoad(way *osm.Way) (RoadData, bool) {
	points := make([]datastructure.Coordinate, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		coord, ok := p.acceptedNodeMap[int64(wayNode.ID)]
		if !ok {
			continue
		}
		points = append(points, datastructure.Coordinate{Lat: coord.lat, Lon: coord.lon})
	}
	if len(points) < 2 {
		return RoadData{}, false
	}

	return RoadData{
		Points: points,
		Class:  way.Tags.Find("highway"),
	}, true
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := skipHighway[highway]; !ok {
			return true
		}
	} else if way.Tags.Find("route") == "road" {
		return true
	} else if junction != "" {
		return true
	}
	return false
}
