package routingalgorithm

import (
	"github.com/fieldcanvas/territoryx/pkg/datastructure"
)

const defaultSnapRadiusMeters = 500.0

// DetailedPath is a full-geometry path between two query coordinates. Dist is
// the accumulated raw edge distance, not the weighted search cost.
type DetailedPath struct {
	Points []datastructure.Coordinate
	Edges  []datastructure.Edge
	Dist   float64 // meters
	Eta    float64 // seconds
	Weight float64
}

// NearestNode snaps a query coordinate to the road network using the default
// 500 m radius.
func (rt *RouteAlgorithm) NearestNode(c datastructure.Coordinate) (datastructure.Node, error) {
	return rt.snap.NearestNode(c, defaultSnapRadiusMeters)
}

// FindDetailedPath snaps both endpoints, runs the shortest path search and
// stitches the full-resolution polyline. The first traversed edge contributes
// all of its points; every later edge drops its first point, which duplicates
// the previous edge's last point.
func (rt *RouteAlgorithm) FindDetailedPath(from, to datastructure.Coordinate) (DetailedPath, error) {
	fromNode, err := rt.NearestNode(from)
	if err != nil {
		return DetailedPath{}, err
	}
	toNode, err := rt.NearestNode(to)
	if err != nil {
		return DetailedPath{}, err
	}

	nodes, edges, weight, err := rt.ShortestPathWithEdges(fromNode.ID, toNode.ID)
	if err != nil {
		return DetailedPath{}, err
	}
	if len(nodes) == 0 {
		return DetailedPath{Points: []datastructure.Coordinate{}, Edges: []datastructure.Edge{}}, nil
	}

	points := make([]datastructure.Coordinate, 0)
	var dist, eta float64

	for i, edge := range edges {
		edgePoints := edge.Points
		if i > 0 && len(edgePoints) > 0 {
			edgePoints = edgePoints[1:]
		}
		points = append(points, edgePoints...)

		dist += edge.Dist
		speedMS := datastructure.RoadClassSpeedKmH(edge.RoadClass) / 3.6
		eta += edge.Dist / speedMS
	}

	if len(edges) == 0 {
		// both endpoints snapped to the same node
		points = append(points, nodes[0].Coordinate())
	}

	return DetailedPath{
		Points: points,
		Edges:  edges,
		Dist:   dist,
		Eta:    eta,
		Weight: weight,
	}, nil
}
