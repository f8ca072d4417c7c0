package datastructure

import (
	"github.com/fieldcanvas/territoryx/pkg/geo"
)

type Node struct {
	ID  int32
	Lat float64
	Lon float64
}

func NewNode(id int32, lat, lon float64) Node {
	return Node{
		ID:  id,
		Lat: lat,
		Lon: lon,
	}
}

func (n Node) Coordinate() Coordinate {
	return NewCoordinate(n.Lat, n.Lon)
}

// Edge is one direction of a road pair. Weight is derived from Dist and the
// road class multiplier, never stored.
type Edge struct {
	EdgeID     int32
	FromNodeID int32
	ToNodeID   int32
	Dist       float64 // meters
	RoadClass  string
	Points     []Coordinate
}

func (e Edge) Weight() float64 {
	return e.Dist * RoadClassMultiplier(e.RoadClass)
}

// RoadClassMultiplier biases the solver toward major roads. Lower multiplier
// means the class is cheaper per meter.
func RoadClassMultiplier(roadClass string) float64 {
	switch roadClass {
	case "motorway", "trunk":
		return 0.8
	case "primary":
		return 0.9
	case "secondary":
		return 1.0
	case "tertiary":
		return 1.1
	case "residential", "unclassified":
		return 1.2
	default:
		return 1.3
	}
}

// RoadClassSpeedKmH is the assumed driving speed per road class, used for
// ETA estimates on canvassing routes.
func RoadClassSpeedKmH(roadClass string) float64 {
	switch roadClass {
	case "motorway":
		return 90
	case "trunk":
		return 80
	case "primary":
		return 60
	case "secondary":
		return 50
	case "tertiary":
		return 40
	case "residential", "unclassified":
		return 30
	default:
		return 35
	}
}

// RoadGraph is an undirected road network stored as directed edge pairs.
// AddRoad is not synchronized; build the whole graph before running queries.
type RoadGraph struct {
	nodes         []Node
	nodeKeys      map[nodeKey]int32
	firstOutEdges [][]int32
	edges         []Edge
}

func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		nodes:         make([]Node, 0),
		nodeKeys:      make(map[nodeKey]int32),
		firstOutEdges: make([][]int32, 0),
		edges:         make([]Edge, 0),
	}
}

// AddRoad ingests one road polyline. Every consecutive coordinate pair
// contributes a forward and a backward edge with the same distance and road
// class. Polylines with fewer than 2 points are ignored. Overlapping
// polylines simply add more edges; duplicates are not merged.
func (g *RoadGraph) AddRoad(points []Coordinate, roadClass string) {
	if len(points) < 2 {
		return
	}

	for i := 0; i < len(points)-1; i++ {
		a := points[i]
		b := points[i+1]

		dist := geo.HaversineDistanceMeters(a.Lat, a.Lon, b.Lat, b.Lon)

		fromID := g.upsertNode(a)
		toID := g.upsertNode(b)

		g.addEdge(fromID, toID, dist, roadClass, []Coordinate{a, b})
		g.addEdge(toID, fromID, dist, roadClass, []Coordinate{b, a})
	}
}

// upsertNode returns the node id for the coordinate, creating the node if its
// quantized key is unseen. The first inserted coordinate value is the one
// retained; later epsilon-equal inserts do not overwrite it.
func (g *RoadGraph) upsertNode(c Coordinate) int32 {
	key := quantize(c)
	if id, ok := g.nodeKeys[key]; ok {
		return id
	}

	id := int32(len(g.nodes))
	g.nodes = append(g.nodes, NewNode(id, c.Lat, c.Lon))
	g.firstOutEdges = append(g.firstOutEdges, []int32{})
	g.nodeKeys[key] = id
	return id
}

func (g *RoadGraph) addEdge(fromID, toID int32, dist float64, roadClass string, points []Coordinate) {
	edgeID := int32(len(g.edges))
	g.edges = append(g.edges, Edge{
		EdgeID:     edgeID,
		FromNodeID: fromID,
		ToNodeID:   toID,
		Dist:       dist,
		RoadClass:  roadClass,
		Points:     points,
	})
	g.firstOutEdges[fromID] = append(g.firstOutEdges[fromID], edgeID)
}

func (g *RoadGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount counts each direction separately.
func (g *RoadGraph) EdgeCount() int {
	return len(g.edges)
}

func (g *RoadGraph) Contains(c Coordinate) bool {
	_, ok := g.nodeKeys[quantize(c)]
	return ok
}

// NodeID resolves a coordinate to its node id through the quantized registry.
func (g *RoadGraph) NodeID(c Coordinate) (int32, bool) {
	id, ok := g.nodeKeys[quantize(c)]
	return id, ok
}

// Neighbors returns the outgoing edges of the node at the coordinate, or an
// empty slice when the coordinate is not a node.
func (g *RoadGraph) Neighbors(c Coordinate) []Edge {
	id, ok := g.nodeKeys[quantize(c)]
	if !ok {
		return []Edge{}
	}

	edges := make([]Edge, 0, len(g.firstOutEdges[id]))
	for _, edgeID := range g.firstOutEdges[id] {
		edges = append(edges, g.edges[edgeID])
	}
	return edges
}

func (g *RoadGraph) Clear() {
	g.nodes = g.nodes[:0]
	g.nodeKeys = make(map[nodeKey]int32)
	g.firstOutEdges = g.firstOutEdges[:0]
	g.edges = g.edges[:0]
}

func (g *RoadGraph) GetNode(nodeID int32) Node {
	return g.nodes[nodeID]
}

func (g *RoadGraph) GetNodeFirstOutEdges(nodeID int32) []int32 {
	return g.firstOutEdges[nodeID]
}

func (g *RoadGraph) GetOutEdge(edgeID int32) Edge {
	return g.edges[edgeID]
}

func (g *RoadGraph) GetNodesLen() int32 {
	return int32(len(g.nodes))
}

// Nodes returns a copy of the node set, for building spatial indexes.
func (g *RoadGraph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}
