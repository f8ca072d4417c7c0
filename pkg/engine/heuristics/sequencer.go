// Package heuristics decides the visit order of multi-stop canvassing
// routes. It layers on top of the pairwise shortest path solver; the solver
// itself never orders stops.
package heuristics

import (
	"errors"
	"time"

	"github.com/fieldcanvas/territoryx/pkg/concurrent"
	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/engine/routingalgorithm"
	"github.com/fieldcanvas/territoryx/pkg/geo"
	"github.com/fieldcanvas/territoryx/pkg/route"
)

var ErrNoStops = errors.New("no stops to sequence")

const legWorkers = 8

type matrixCellResult struct {
	row int
	col int
	leg leg
}

type PairwiseRouter interface {
	FindDetailedPath(from, to datastructure.Coordinate) (routingalgorithm.DetailedPath, error)
}

type Stop struct {
	Address string
	Coord   datastructure.Coordinate
}

func NewStop(address string, lat, lon float64) Stop {
	return Stop{Address: address, Coord: datastructure.NewCoordinate(lat, lon)}
}

// StopSequencer orders stops with a nearest-neighbor construction followed by
// 2-opt improvement. The first stop is treated as the fixed departure point.
type StopSequencer struct {
	router PairwiseRouter
}

func NewStopSequencer(router PairwiseRouter) *StopSequencer {
	return &StopSequencer{router: router}
}

// leg is the solved pairwise path between two stops. When two stops are
// mutually unreachable on the road graph the leg falls back to a straight
// line estimate so one bad snap cannot sink the whole route.
type leg struct {
	points   []datastructure.Coordinate
	edges    []datastructure.Edge
	dist     float64
	eta      float64
	fallback bool
}

func (s *StopSequencer) solveLeg(from, to Stop) leg {
	detail, err := s.router.FindDetailedPath(from.Coord, to.Coord)
	if err != nil || len(detail.Points) == 0 {
		dist := geo.HaversineDistanceMeters(from.Coord.Lat, from.Coord.Lon, to.Coord.Lat, to.Coord.Lon)
		return leg{
			points:   []datastructure.Coordinate{from.Coord, to.Coord},
			dist:     dist,
			eta:      dist / (datastructure.RoadClassSpeedKmH("") / 3.6),
			fallback: true,
		}
	}
	return leg{
		points: detail.Points,
		edges:  detail.Edges,
		dist:   detail.Dist,
		eta:    detail.Eta,
	}
}

// OptimizeRoute sequences the stops and assembles the persisted route
// aggregate, accumulating estimated arrival times from departAt.
func (s *StopSequencer) OptimizeRoute(stops []Stop, departAt time.Time) (*route.OptimizedRoute, error) {
	if len(stops) == 0 {
		return nil, ErrNoStops
	}

	if len(stops) == 1 {
		eta := departAt
		wp := route.NewWaypoint(stops[0].Address, stops[0].Coord.Lat, stops[0].Coord.Lon, 0, &eta)
		return route.NewOptimizedRoute([]route.Waypoint{wp}, []route.RoadSegment{}, 0, 0, time.Now()), nil
	}

	legs := make([][]leg, len(stops))
	dist := make([][]float64, len(stops))
	for i := range stops {
		legs[i] = make([]leg, len(stops))
		dist[i] = make([]float64, len(stops))
	}

	workers := concurrent.NewWorkerPool[concurrent.MatrixCellParam, matrixCellResult](legWorkers,
		len(stops)*(len(stops)-1))
	for i := range stops {
		for j := range stops {
			if i == j {
				continue
			}
			workers.AddJob(concurrent.NewMatrixCellParam(i, j, stops[i].Coord, stops[j].Coord))
		}
	}

	workers.Close()
	workers.Start(func(job concurrent.MatrixCellParam) matrixCellResult {
		return matrixCellResult{
			row: job.Row,
			col: job.Col,
			leg: s.solveLeg(stops[job.Row], stops[job.Col]),
		}
	})
	workers.Wait()

	for cell := range workers.CollectResults() {
		legs[cell.row][cell.col] = cell.leg
		dist[cell.row][cell.col] = cell.leg.dist
	}

	order := nearestNeighborOrder(dist)
	order = twoOptImprove(order, dist)

	waypoints := make([]route.Waypoint, 0, len(stops))
	segments := make([]route.RoadSegment, 0, len(stops)-1)

	arrival := departAt
	firstEta := arrival
	first := stops[order[0]]
	waypoints = append(waypoints, route.NewWaypoint(first.Address, first.Coord.Lat, first.Coord.Lon, 0, &firstEta))

	var totalDist, totalEta float64
	for i := 1; i < len(order); i++ {
		l := legs[order[i-1]][order[i]]

		totalDist += l.dist
		totalEta += l.eta
		arrival = arrival.Add(time.Duration(l.eta * float64(time.Second)))
		eta := arrival

		stop := stops[order[i]]
		waypoints = append(waypoints, route.NewWaypoint(stop.Address, stop.Coord.Lat, stop.Coord.Lon, i, &eta))

		segments = append(segments, route.NewRoadSegment(
			waypoints[i-1].ID,
			waypoints[i].ID,
			l.points,
			l.dist,
			dominantRoadClass(l.edges),
		))
	}

	return route.NewOptimizedRoute(waypoints, segments, totalDist, totalEta, time.Now()), nil
}

// nearestNeighborOrder builds a tour greedily from stop 0.
func nearestNeighborOrder(dist [][]float64) []int {
	n := len(dist)
	order := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	order = append(order, current)
	visited[current] = true

	for len(order) < n {
		next := -1
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			if next == -1 || dist[current][candidate] < dist[current][next] {
				next = candidate
			}
		}
		order = append(order, next)
		visited[next] = true
		current = next
	}
	return order
}

// twoOptImprove repeatedly reverses tour sub-sections while doing so shortens
// the open tour. The departure stop at position 0 stays fixed.
func twoOptImprove(order []int, dist [][]float64) []int {
	n := len(order)
	if n < 4 {
		return order
	}

	improved := true
	for improved {
		improved = false
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				delta := dist[order[i-1]][order[j]] - dist[order[i-1]][order[i]]
				if j+1 < n {
					delta += dist[order[i]][order[j+1]] - dist[order[j]][order[j+1]]
				}
				if delta < -1e-9 {
					reverseSection(order, i, j)
					improved = true
				}
			}
		}
	}
	return order
}

func reverseSection(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}

func tourLength(order []int, dist [][]float64) float64 {
	var total float64
	for i := 1; i < len(order); i++ {
		total += dist[order[i-1]][order[i]]
	}
	return total
}

// dominantRoadClass is the class carrying the most meters of the leg.
func dominantRoadClass(edges []datastructure.Edge) string {
	distByClass := make(map[string]float64)
	for _, e := range edges {
		distByClass[e.RoadClass] += e.Dist
	}

	best := ""
	var bestDist float64
	for class, d := range distByClass {
		if d > bestDist {
			best = class
			bestDist = d
		}
	}
	return best
}
