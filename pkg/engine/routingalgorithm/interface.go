package routingalgorithm

import "github.com/fieldcanvas/territoryx/pkg/datastructure"

type RoadNetwork interface {
	GetNode(nodeID int32) datastructure.Node
	GetNodeFirstOutEdges(nodeID int32) []int32
	GetOutEdge(edgeID int32) datastructure.Edge
	GetNodesLen() int32
}

type NodeSnapper interface {
	NearestNode(c datastructure.Coordinate, maxDistMeters float64) (datastructure.Node, error)
}
