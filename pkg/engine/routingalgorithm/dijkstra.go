package routingalgorithm

import (
	"errors"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/util"
)

var (
	ErrNodeNotFound = errors.New("node not in road graph")
	ErrUnreachable  = errors.New("no path between nodes")
)

type RouteAlgorithm struct {
	g    RoadNetwork
	snap NodeSnapper
}

func NewRouteAlgorithm(g RoadNetwork, snap NodeSnapper) *RouteAlgorithm {
	return &RouteAlgorithm{g: g, snap: snap}
}

type cameFromPair struct {
	Edge   datastructure.Edge
	NodeID int32
}

// ShortestPath runs Dijkstra over edge weight (distance scaled by road class)
// and returns the node path from -> to plus the total weight.
func (rt *RouteAlgorithm) ShortestPath(from, to int32) ([]datastructure.Node, float64, error) {
	nodes, _, weight, err := rt.ShortestPathWithEdges(from, to)
	return nodes, weight, err
}

func (rt *RouteAlgorithm) ShortestPathWithEdges(from, to int32) ([]datastructure.Node, []datastructure.Edge, float64, error) {
	if from < 0 || from >= rt.g.GetNodesLen() || to < 0 || to >= rt.g.GetNodesLen() {
		return nil, nil, 0, ErrNodeNotFound
	}
	if from == to || rt.g.GetNode(from).Coordinate().Equal(rt.g.GetNode(to).Coordinate()) {
		return []datastructure.Node{rt.g.GetNode(from)}, []datastructure.Edge{}, 0, nil
	}

	pq := datastructure.NewMinHeap[int32]()

	costSoFar := make(map[int32]float64)
	costSoFar[from] = 0.0

	pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: 0, Item: from})

	cameFrom := make(map[int32]cameFromPair)
	cameFrom[from] = cameFromPair{datastructure.Edge{}, -1}

	visited := make(map[int32]struct{})

	for {
		if pq.Size() == 0 {
			return nil, nil, 0, ErrUnreachable
		}

		current, _ := pq.ExtractMin()
		if current.Item == to {
			nodes, edges := rt.reconstructPath(from, to, cameFrom)
			return nodes, edges, costSoFar[to], nil
		}

		if _, ok := visited[current.Item]; ok {
			continue
		}
		visited[current.Item] = struct{}{}

		for _, edgeID := range rt.g.GetNodeFirstOutEdges(current.Item) {
			edge := rt.g.GetOutEdge(edgeID)

			if _, ok := visited[edge.ToNodeID]; ok {
				continue
			}

			newCost := costSoFar[current.Item] + edge.Weight()

			oldCost, ok := costSoFar[edge.ToNodeID]
			if !ok {
				costSoFar[edge.ToNodeID] = newCost
				pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: edge.ToNodeID})
				cameFrom[edge.ToNodeID] = cameFromPair{edge, current.Item}
			} else if newCost < oldCost {
				costSoFar[edge.ToNodeID] = newCost
				pq.DecreaseKey(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: edge.ToNodeID})
				cameFrom[edge.ToNodeID] = cameFromPair{edge, current.Item}
			}
		}
	}
}

// reconstructPath walks predecessor links from to back to from. A broken
// chain yields an empty path, never a partial one.
func (rt *RouteAlgorithm) reconstructPath(from, to int32, cameFrom map[int32]cameFromPair) ([]datastructure.Node, []datastructure.Edge) {
	pathNodes := []datastructure.Node{}
	pathEdges := []datastructure.Edge{}

	curr := to
	for curr != from {
		pair, ok := cameFrom[curr]
		if !ok {
			return []datastructure.Node{}, []datastructure.Edge{}
		}
		pathNodes = append(pathNodes, rt.g.GetNode(curr))
		pathEdges = append(pathEdges, pair.Edge)
		curr = pair.NodeID
	}
	pathNodes = append(pathNodes, rt.g.GetNode(from))

	return util.ReverseG(pathNodes), util.ReverseG(pathEdges)
}
