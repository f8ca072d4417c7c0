package kv

import (
	"context"
	"testing"
	"time"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"
	"github.com/fieldcanvas/territoryx/pkg/route"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKVDB(t *testing.T) *KVDB {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	return NewKVDB(db)
}

func TestRoadRecordEncodeDecode(t *testing.T) {
	roads := []RoadRecord{
		NewRoadRecord([]datastructure.Coordinate{
			{Lat: -7.550261232598317, Lon: 110.78210790296636},
			{Lat: -7.560361, Lon: 110.792622},
		}, "residential"),
		NewRoadRecord([]datastructure.Coordinate{
			{Lat: -7.5592, Lon: 110.7972},
			{Lat: -7.5601, Lon: 110.7985},
		}, "primary"),
	}

	encoded, err := encodeRoads(roads)
	require.NoError(t, err)
	compressed, err := compress(encoded)
	require.NoError(t, err)

	decompressed, err := decompress(compressed)
	require.NoError(t, err)
	decoded, err := decodeRoads(decompressed)
	require.NoError(t, err)

	require.Len(t, decoded, 2)
	assert.Equal(t, roads[0].CenterLoc, decoded[0].CenterLoc)
	assert.Equal(t, roads[0].Points, decoded[0].Points)
	assert.Equal(t, "primary", decoded[1].RoadClass)
}

func TestBuildH3IndexedRoads(t *testing.T) {
	db := newTestKVDB(t)

	roads := []RoadRecord{
		NewRoadRecord([]datastructure.Coordinate{
			{Lat: -7.550261, Lon: 110.782107},
			{Lat: -7.551361, Lon: 110.783207},
		}, "residential"),
		NewRoadRecord([]datastructure.Coordinate{
			{Lat: -7.550861, Lon: 110.782507},
			{Lat: -7.551961, Lon: 110.783607},
		}, "tertiary"),
	}

	err := db.BuildH3IndexedRoads(context.Background(), roads)
	require.NoError(t, err)

	got, err := db.GetRoadsAroundPoint(-7.550261, 110.782107)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetRoadsAroundPointWidensSearch(t *testing.T) {
	db := newTestKVDB(t)

	roads := []RoadRecord{
		NewRoadRecord([]datastructure.Coordinate{
			{Lat: -7.550261, Lon: 110.782107},
			{Lat: -7.551361, Lon: 110.783207},
		}, "residential"),
	}
	err := db.BuildH3IndexedRoads(context.Background(), roads)
	require.NoError(t, err)

	// a point one cell over, the grid-disk ring walk still finds the bucket
	got, err := db.GetRoadsAroundPoint(-7.5530, 110.7850)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestGetRoadsAroundPointNotFound(t *testing.T) {
	db := newTestKVDB(t)

	_, err := db.GetRoadsAroundPoint(51.5074, -0.1278)
	assert.ErrorIs(t, err, ErrRoadsNotFound)
}

func testRoute(t *testing.T) *route.OptimizedRoute {
	t.Helper()

	a := route.NewWaypoint("Jl. Slamet Riyadi 1", -7.5666, 110.8166, 0, nil)
	b := route.NewWaypoint("Jl. Slamet Riyadi 2", -7.5702, 110.8201, 1, nil)
	seg := route.NewRoadSegment(a.ID, b.ID, []datastructure.Coordinate{
		{Lat: -7.5666, Lon: 110.8166},
		{Lat: -7.5702, Lon: 110.8201},
	}, 560.0, "residential")

	return route.NewOptimizedRoute(
		[]route.Waypoint{a, b},
		[]route.RoadSegment{seg},
		560.0,
		95.0,
		time.Date(2024, 5, 17, 8, 0, 0, 0, time.UTC),
	)
}

func TestSaveAndGetRoute(t *testing.T) {
	db := newTestKVDB(t)
	r := testRoute(t)

	id, err := db.SaveRoute(r)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := db.GetRoute(id)
	require.NoError(t, err)
	assert.Equal(t, r.StopCount(), got.StopCount())
	assert.InDelta(t, r.TotalDistance(), got.TotalDistance(), 1e-9)
	assert.Equal(t, r.Waypoints()[0].ID, got.Waypoints()[0].ID)
}

func TestGetRouteNotFound(t *testing.T) {
	db := newTestKVDB(t)

	_, err := db.GetRoute("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestDeleteRoute(t *testing.T) {
	db := newTestKVDB(t)

	id, err := db.SaveRoute(testRoute(t))
	require.NoError(t, err)

	err = db.DeleteRoute(id)
	require.NoError(t, err)

	_, err = db.GetRoute(id)
	assert.ErrorIs(t, err, ErrRouteNotFound)

	err = db.DeleteRoute(id)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestListRoutes(t *testing.T) {
	db := newTestKVDB(t)

	idOne, err := db.SaveRoute(testRoute(t))
	require.NoError(t, err)
	idTwo, err := db.SaveRoute(testRoute(t))
	require.NoError(t, err)

	routes, err := db.ListRoutes()
	require.NoError(t, err)
	require.Len(t, routes, 2)

	ids := map[string]bool{routes[0].ID: true, routes[1].ID: true}
	assert.True(t, ids[idOne])
	assert.True(t, ids[idTwo])
}
