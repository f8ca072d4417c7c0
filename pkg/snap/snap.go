// Package snap resolves arbitrary query coordinates to road network nodes.
package snap

import (
	"errors"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/geo"

	"github.com/dhconnelly/rtreego"
)

const (
	// DefaultSnapRadiusMeters bounds how far a query point may be from the
	// road network before the snap is rejected.
	DefaultSnapRadiusMeters = 500.0

	// the r-tree ranks neighbors in raw degree space, which is anisotropic
	// in longitude, so we over-fetch and re-rank by haversine distance.
	nearestCandidates = 4
)

var ErrNoNearbyNode = errors.New("no road node within snap radius")

type nodeEntry struct {
	node datastructure.Node
	rect rtreego.Rect
}

func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// NodeIndex is an r-tree over the road graph's node set. Build it once after
// the graph is loaded; reads are safe concurrently once building is done.
type NodeIndex struct {
	tree *rtreego.Rtree
}

func NewNodeIndex() *NodeIndex {
	return &NodeIndex{tree: rtreego.NewTree(2, 25, 50)}
}

func (idx *NodeIndex) Build(nodes []datastructure.Node) {
	for _, n := range nodes {
		idx.InsertNode(n)
	}
}

func (idx *NodeIndex) InsertNode(n datastructure.Node) {
	p := rtreego.Point{n.Lat, n.Lon}
	idx.tree.Insert(&nodeEntry{node: n, rect: p.ToRect(datastructure.CoordinateEpsilon)})
}

func (idx *NodeIndex) Size() int {
	return idx.tree.Size()
}

// NearestNode returns the closest node strictly within maxDistMeters of the
// query coordinate. ErrNoNearbyNode when nothing qualifies or the index is
// empty.
func (idx *NodeIndex) NearestNode(c datastructure.Coordinate, maxDistMeters float64) (datastructure.Node, error) {
	if idx.tree.Size() == 0 {
		return datastructure.Node{}, ErrNoNearbyNode
	}

	candidates := idx.tree.NearestNeighbors(nearestCandidates, rtreego.Point{c.Lat, c.Lon})

	var best datastructure.Node
	bestDist := maxDistMeters
	found := false

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		entry := candidate.(*nodeEntry)
		dist := geo.HaversineDistanceMeters(c.Lat, c.Lon, entry.node.Lat, entry.node.Lon)
		if dist < bestDist {
			best = entry.node
			bestDist = dist
			found = true
		}
	}

	if !found {
		return datastructure.Node{}, ErrNoNearbyNode
	}
	return best, nil
}
