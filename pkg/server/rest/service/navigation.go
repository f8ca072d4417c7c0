package service

import (
	"context"
	"errors"
	"time"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/engine/heuristics"
	"github.com/fieldcanvas/territoryx/pkg/engine/routingalgorithm"
	"github.com/fieldcanvas/territoryx/pkg/kv"
	"github.com/fieldcanvas/territoryx/pkg/route"
	"github.com/fieldcanvas/territoryx/pkg/server"
	"github.com/fieldcanvas/territoryx/pkg/snap"
	"github.com/fieldcanvas/territoryx/pkg/territory"
)

type RoutingEngine interface {
	FindDetailedPath(from, to datastructure.Coordinate) (routingalgorithm.DetailedPath, error)
	NearestNode(c datastructure.Coordinate) (datastructure.Node, error)
}

type Sequencer interface {
	OptimizeRoute(stops []heuristics.Stop, departAt time.Time) (*route.OptimizedRoute, error)
}

type RouteStore interface {
	SaveRoute(r *route.OptimizedRoute) (string, error)
	GetRoute(id string) (*route.OptimizedRoute, error)
	DeleteRoute(id string) error
	ListRoutes() ([]kv.StoredRoute, error)
}

type NavigationService struct {
	routing   RoutingEngine
	sequencer Sequencer
	store     RouteStore
}

func NewNavigationService(routing RoutingEngine, sequencer Sequencer, store RouteStore) *NavigationService {
	return &NavigationService{routing: routing, sequencer: sequencer, store: store}
}

// ShortestPath solves the pairwise route and returns the encoded polyline
// alongside the raw geometry, distance in meters and eta in seconds.
func (uc *NavigationService) ShortestPath(ctx context.Context, srcLat, srcLon float64,
	dstLat, dstLon float64) (string, []datastructure.Coordinate, float64, float64, error) {

	from := datastructure.NewCoordinate(srcLat, srcLon)
	to := datastructure.NewCoordinate(dstLat, dstLon)

	detail, err := uc.routing.FindDetailedPath(from, to)
	if err != nil {
		switch {
		case errors.Is(err, snap.ErrNoNearbyNode), errors.Is(err, routingalgorithm.ErrNodeNotFound):
			return "", []datastructure.Coordinate{}, 0, 0, server.WrapErrorf(err, server.ErrNotFound, "sorry!! the location you entered is not covered on my map :(, please use diferrent opensteetmap pbf file")
		case errors.Is(err, routingalgorithm.ErrUnreachable):
			return "", []datastructure.Coordinate{}, 0, 0, server.WrapErrorf(err, server.ErrUnreachable, "no drivable road connects those two locations")
		default:
			return "", []datastructure.Coordinate{}, 0, 0, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
	}

	p := datastructure.CreatePolyline(detail.Points)
	return p, detail.Points, detail.Dist, detail.Eta, nil
}

// OptimizeRoute sequences the stops, persists the resulting route and
// returns its storage id with the aggregate.
func (uc *NavigationService) OptimizeRoute(ctx context.Context, stops []heuristics.Stop,
	departAt time.Time) (string, *route.OptimizedRoute, error) {

	optimized, err := uc.sequencer.OptimizeRoute(stops, departAt)
	if err != nil {
		if errors.Is(err, heuristics.ErrNoStops) {
			return "", nil, server.WrapErrorf(err, server.ErrBadParamInput, "stops cannot be empty!")
		}
		return "", nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	id, err := uc.store.SaveRoute(optimized)
	if err != nil {
		return "", nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return id, optimized, nil
}

// Territory builds the territory boundary for a set of visit coordinates and
// reports its approximate surface area.
func (uc *NavigationService) Territory(ctx context.Context, coords []datastructure.Coordinate,
	method territory.Method) ([]datastructure.Coordinate, float64, error) {

	if len(coords) == 0 {
		return []datastructure.Coordinate{}, 0, server.NewErrorf(server.ErrBadParamInput, "coordinates cannot be empty!")
	}

	ring := territory.Polygon(coords, method)
	area := territory.RingAreaSqMeters(ring)
	return ring, area, nil
}

func (uc *NavigationService) GetRoute(ctx context.Context, id string) (*route.OptimizedRoute, error) {
	r, err := uc.store.GetRoute(id)
	if err != nil {
		switch {
		case errors.Is(err, kv.ErrRouteNotFound):
			return nil, server.WrapErrorf(err, server.ErrNotFound, "route %s not found", id)
		case errors.Is(err, route.ErrDecode):
			return nil, server.WrapErrorf(err, server.ErrDecode, "stored route %s is corrupted", id)
		default:
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
	}
	return r, nil
}

func (uc *NavigationService) ListRoutes(ctx context.Context) ([]kv.StoredRoute, error) {
	routes, err := uc.store.ListRoutes()
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return routes, nil
}

func (uc *NavigationService) DeleteRoute(ctx context.Context, id string) error {
	if err := uc.store.DeleteRoute(id); err != nil {
		if errors.Is(err, kv.ErrRouteNotFound) {
			return server.WrapErrorf(err, server.ErrNotFound, "route %s not found", id)
		}
		return server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return nil
}
