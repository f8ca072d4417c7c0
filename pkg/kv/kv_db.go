package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/fieldcanvas/territoryx/pkg/route"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/uber/h3-go/v4"
)

const (
	h3Resolution = 9

	roadKeyPrefix  = "roads/"
	routeKeyPrefix = "route/"

	writeBatchSize = 1000
)

var (
	ErrRoadsNotFound = errors.New("no roads found near point")
	ErrRouteNotFound = errors.New("route not found")
)

type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

// BuildH3IndexedRoads groups the road feed by H3 cell and saves each bucket
// so viewport-scoped graph rebuilds only read nearby cells.
func (k *KVDB) BuildH3IndexedRoads(ctx context.Context, roads []RoadRecord) error {
	log.Printf("creating & saving h3 indexed roads to key-value db...")

	buckets := make(map[string][]RoadRecord)
	for i := range roads {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		road := roads[i]
		if len(road.Points) == 0 {
			continue
		}

		cell := h3.LatLngToCell(h3.NewLatLng(road.CenterLoc[0], road.CenterLoc[1]), h3Resolution)
		buckets[cell.String()] = append(buckets[cell.String()], road)
	}

	batches := make([]roadBatch, 0, writeBatchSize)
	for key, value := range buckets {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		batches = append(batches, roadBatch{key: key, value: value})
		if len(batches) == writeBatchSize {
			if err := k.saveRoadBatch(ctx, batches); err != nil {
				return err
			}
			batches = make([]roadBatch, 0, writeBatchSize)
		}
	}

	if len(batches) > 0 {
		if err := k.saveRoadBatch(ctx, batches); err != nil {
			return err
		}
	}

	log.Printf("creating & saving h3 indexed roads done...")
	return nil
}

type roadBatch struct {
	key   string
	value []RoadRecord
}

func (k *KVDB) saveRoadBatch(ctx context.Context, batches []roadBatch) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, data := range batches {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		encoded, err := encodeRoads(data.value)
		if err != nil {
			return err
		}
		compressed, err := compress(encoded)
		if err != nil {
			return err
		}

		if err := batch.Set([]byte(roadKeyPrefix+data.key), compressed); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		log.Printf("error saving roads: %v", err)
		return err
	}
	return nil
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (k *KVDB) getRoadsInCell(cell h3.Cell) ([]RoadRecord, error) {
	val, err := k.get([]byte(roadKeyPrefix + cell.String()))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return []RoadRecord{}, nil
		}
		return nil, err
	}

	decompressed, err := decompress(val)
	if err != nil {
		return nil, err
	}
	return decodeRoads(decompressed)
}

// GetRoadsAroundPoint reads the road bucket of the point's cell, widening
// the grid disk ring by ring until something turns up.
func (k *KVDB) GetRoadsAroundPoint(lat, lon float64) ([]RoadRecord, error) {
	home := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)

	roads, err := k.getRoadsInCell(home)
	if err != nil {
		return nil, err
	}

	for ring := 1; ring <= 10 && len(roads) == 0; ring++ {
		for _, cell := range h3.GridDisk(home, ring) {
			if cell == home {
				continue
			}
			cellRoads, err := k.getRoadsInCell(cell)
			if err != nil {
				return nil, err
			}
			roads = append(roads, cellRoads...)
		}
	}

	if len(roads) == 0 {
		return nil, ErrRoadsNotFound
	}
	return roads, nil
}

// SaveRoute persists the serialized route and returns its storage id.
func (k *KVDB) SaveRoute(r *route.OptimizedRoute) (string, error) {
	id := uuid.New().String()
	if err := k.saveRouteWithID(id, r); err != nil {
		return "", err
	}
	return id, nil
}

func (k *KVDB) saveRouteWithID(id string, r *route.OptimizedRoute) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	compressed, err := compress(data)
	if err != nil {
		return err
	}

	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(routeKeyPrefix+id), compressed)
	})
}

func (k *KVDB) GetRoute(id string) (*route.OptimizedRoute, error) {
	val, err := k.get([]byte(routeKeyPrefix + id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	data, err := decompress(val)
	if err != nil {
		return nil, err
	}
	return route.Decode(data)
}

func (k *KVDB) DeleteRoute(id string) error {
	return k.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(routeKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRouteNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete([]byte(routeKeyPrefix + id))
	})
}

// StoredRoute pairs a persisted route with its storage id.
type StoredRoute struct {
	ID    string
	Route *route.OptimizedRoute
}

func (k *KVDB) ListRoutes() ([]StoredRoute, error) {
	routes := []StoredRoute{}

	err := k.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(routeKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(routeKeyPrefix):])

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			data, err := decompress(val)
			if err != nil {
				return err
			}
			r, err := route.Decode(data)
			if err != nil {
				return err
			}

			routes = append(routes, StoredRoute{ID: id, Route: r})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routes, nil
}
