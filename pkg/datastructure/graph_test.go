package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRoadNodeAndEdgeCounts(t *testing.T) {
	g := NewRoadGraph()

	points := []Coordinate{
		NewCoordinate(0, 0),
		NewCoordinate(0, 0.001),
		NewCoordinate(0, 0.002),
	}
	g.AddRoad(points, "residential")

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount()) // 2*(N-1), both directions

	// overlapping polyline adds edges but no new nodes
	g.AddRoad(points[:2], "residential")
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 6, g.EdgeCount())
}

func TestAddRoadTooShort(t *testing.T) {
	g := NewRoadGraph()

	g.AddRoad([]Coordinate{NewCoordinate(0, 0)}, "primary")
	g.AddRoad([]Coordinate{}, "primary")

	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestNodeDeduplicationWithinEpsilon(t *testing.T) {
	g := NewRoadGraph()

	g.AddRoad([]Coordinate{NewCoordinate(0, 0), NewCoordinate(0, 0.001)}, "residential")
	// second road starts within epsilon of the first road's endpoint
	g.AddRoad([]Coordinate{NewCoordinate(0.0000004, 0.0010004), NewCoordinate(0, 0.002)}, "residential")

	assert.Equal(t, 3, g.NodeCount())

	// the first inserted coordinate value is retained
	id, ok := g.NodeID(NewCoordinate(0, 0.001))
	assert.True(t, ok)
	assert.Equal(t, 0.001, g.GetNode(id).Lon)
}

func TestNeighborsAndContains(t *testing.T) {
	g := NewRoadGraph()
	g.AddRoad([]Coordinate{NewCoordinate(0, 0), NewCoordinate(0, 0.001)}, "secondary")

	assert.True(t, g.Contains(NewCoordinate(0, 0)))
	assert.False(t, g.Contains(NewCoordinate(1, 1)))

	edges := g.Neighbors(NewCoordinate(0, 0))
	assert.Len(t, edges, 1)
	assert.Equal(t, "secondary", edges[0].RoadClass)
	assert.InDelta(t, 111.2, edges[0].Dist, 1.0)

	// reversed geometry on the backward edge
	back := g.Neighbors(NewCoordinate(0, 0.001))
	assert.Len(t, back, 1)
	assert.Equal(t, NewCoordinate(0, 0.001), back[0].Points[0])
	assert.Equal(t, NewCoordinate(0, 0), back[0].Points[1])

	assert.Empty(t, g.Neighbors(NewCoordinate(5, 5)))
}

func TestEdgeWeight(t *testing.T) {
	cases := []struct {
		roadClass  string
		multiplier float64
	}{
		{"motorway", 0.8},
		{"trunk", 0.8},
		{"primary", 0.9},
		{"secondary", 1.0},
		{"tertiary", 1.1},
		{"residential", 1.2},
		{"unclassified", 1.2},
		{"", 1.3},
		{"service", 1.3},
	}

	for _, c := range cases {
		e := Edge{Dist: 100, RoadClass: c.roadClass}
		assert.InDelta(t, 100*c.multiplier, e.Weight(), 1e-9, "class %q", c.roadClass)
	}
}

func TestClear(t *testing.T) {
	g := NewRoadGraph()
	g.AddRoad([]Coordinate{NewCoordinate(0, 0), NewCoordinate(0, 0.001)}, "primary")

	g.Clear()

	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.False(t, g.Contains(NewCoordinate(0, 0)))

	// reusable after clear
	g.AddRoad([]Coordinate{NewCoordinate(0, 0), NewCoordinate(0, 0.001)}, "primary")
	assert.Equal(t, 2, g.NodeCount())
}
