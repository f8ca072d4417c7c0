package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/engine/heuristics"
	"github.com/fieldcanvas/territoryx/pkg/kv"
	"github.com/fieldcanvas/territoryx/pkg/route"
	"github.com/fieldcanvas/territoryx/pkg/server"
	"github.com/fieldcanvas/territoryx/pkg/territory"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	shortestPathErr error
	getRouteErr     error
}

func (s *stubService) ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (string,
	[]datastructure.Coordinate, float64, float64, error) {
	if s.shortestPathErr != nil {
		return "", nil, 0, 0, s.shortestPathErr
	}
	points := []datastructure.Coordinate{{Lat: srcLat, Lon: srcLon}, {Lat: dstLat, Lon: dstLon}}
	return datastructure.CreatePolyline(points), points, 1500, 180, nil
}

func (s *stubService) OptimizeRoute(ctx context.Context, stops []heuristics.Stop, departAt time.Time) (string, *route.OptimizedRoute, error) {
	a := route.NewWaypoint(stops[0].Address, stops[0].Coord.Lat, stops[0].Coord.Lon, 0, nil)
	r := route.NewOptimizedRoute([]route.Waypoint{a}, []route.RoadSegment{}, 0, 0, time.Now())
	return "route-1", r, nil
}

func (s *stubService) Territory(ctx context.Context, coords []datastructure.Coordinate, method territory.Method) ([]datastructure.Coordinate, float64, error) {
	return territory.Polygon(coords, method), 42.0, nil
}

func (s *stubService) GetRoute(ctx context.Context, id string) (*route.OptimizedRoute, error) {
	if s.getRouteErr != nil {
		return nil, s.getRouteErr
	}
	a := route.NewWaypoint("depot", -7.56, 110.81, 0, nil)
	return route.NewOptimizedRoute([]route.Waypoint{a}, []route.RoadSegment{}, 0, 0, time.Now()), nil
}

func (s *stubService) ListRoutes(ctx context.Context) ([]kv.StoredRoute, error) {
	return []kv.StoredRoute{}, nil
}

func (s *stubService) DeleteRoute(ctx context.Context, id string) error {
	return nil
}

func newTestRouter(svc NavigationService) *chi.Mux {
	r := chi.NewRouter()
	NavigationRouter(r, svc)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestShortestPathHandler(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := doJSON(t, r, http.MethodPost, "/api/navigation/shortest-path", map[string]float64{
		"src_lat": -7.56, "src_lon": 110.81, "dst_lat": -7.57, "dst_lon": 110.82,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortestPathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Path)
	assert.Len(t, resp.Coords, 2)
	assert.InDelta(t, 1500, resp.Distance, 1e-9)
}

func TestShortestPathHandlerValidation(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := doJSON(t, r, http.MethodPost, "/api/navigation/shortest-path", map[string]float64{
		"src_lat": 120.0, "src_lon": 110.81, "dst_lat": -7.57, "dst_lon": 110.82,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShortestPathHandlerNotFound(t *testing.T) {
	svc := &stubService{shortestPathErr: server.NewErrorf(server.ErrNotFound, "not covered")}
	r := newTestRouter(svc)

	rec := doJSON(t, r, http.MethodPost, "/api/navigation/shortest-path", map[string]float64{
		"src_lat": -7.56, "src_lon": 110.81, "dst_lat": -7.57, "dst_lon": 110.82,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShortestPathHandlerUnreachable(t *testing.T) {
	svc := &stubService{shortestPathErr: server.NewErrorf(server.ErrUnreachable, "no road connects")}
	r := newTestRouter(svc)

	rec := doJSON(t, r, http.MethodPost, "/api/navigation/shortest-path", map[string]float64{
		"src_lat": -7.56, "src_lon": 110.81, "dst_lat": -7.57, "dst_lon": 110.82,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOptimizeRouteHandler(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := doJSON(t, r, http.MethodPost, "/api/navigation/optimize-route", map[string]interface{}{
		"stops": []map[string]interface{}{
			{"address": "depot", "lat": -7.56, "lon": 110.81},
			{"address": "first visit", "lat": -7.57, "lon": 110.82},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "route-1", resp.ID)
}

func TestOptimizeRouteHandlerEmptyStops(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := doJSON(t, r, http.MethodPost, "/api/navigation/optimize-route", map[string]interface{}{
		"stops": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTerritoryHandler(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := doJSON(t, r, http.MethodPost, "/api/territory/polygon", map[string]interface{}{
		"coordinates": []map[string]float64{
			{"lat": 1, "lon": 1},
			{"lat": 1, "lon": 2},
			{"lat": 2, "lon": 2},
			{"lat": 2, "lon": 1},
		},
		"method": "convex_hull",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TerritoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Polygon, 5)
	assert.InDelta(t, 42.0, resp.AreaSqMeter, 1e-9)
}

func TestTerritoryHandlerBadMethod(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := doJSON(t, r, http.MethodPost, "/api/territory/polygon", map[string]interface{}{
		"coordinates": []map[string]float64{{"lat": 1, "lon": 1}},
		"method":      "voronoi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRouteHandlerNotFound(t *testing.T) {
	svc := &stubService{getRouteErr: server.NewErrorf(server.ErrNotFound, "route missing not found")}
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/routes/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRouteHandler(t *testing.T) {
	r := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/routes/route-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
