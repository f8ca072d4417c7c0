// Package route holds the persisted route aggregate: ordered waypoints,
// the road segments stitching them, and summary statistics.
package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fieldcanvas/territoryx/pkg/datastructure"

	"github.com/google/uuid"
)

var ErrDecode = errors.New("malformed route payload")

type Waypoint struct {
	ID                   uuid.UUID
	Address              string
	Lat                  float64
	Lon                  float64
	OrderIndex           int
	EstimatedArrivalTime *time.Time
}

func NewWaypoint(address string, lat, lon float64, orderIndex int, eta *time.Time) Waypoint {
	return Waypoint{
		ID:                   uuid.New(),
		Address:              address,
		Lat:                  lat,
		Lon:                  lon,
		OrderIndex:           orderIndex,
		EstimatedArrivalTime: eta,
	}
}

func (w Waypoint) Coordinate() datastructure.Coordinate {
	return datastructure.NewCoordinate(w.Lat, w.Lon)
}

type RoadSegment struct {
	ID             uuid.UUID
	FromWaypointID uuid.UUID
	ToWaypointID   uuid.UUID
	Points         []datastructure.Coordinate
	Distance       float64 // meters
	RoadClass      string  // empty means unknown, serialized as null
}

func NewRoadSegment(from, to uuid.UUID, points []datastructure.Coordinate, distance float64, roadClass string) RoadSegment {
	return RoadSegment{
		ID:             uuid.New(),
		FromWaypointID: from,
		ToWaypointID:   to,
		Points:         points,
		Distance:       distance,
		RoadClass:      roadClass,
	}
}

// OptimizedRoute is immutable after construction; accessors return copies of
// slice-valued fields.
type OptimizedRoute struct {
	waypoints         []Waypoint
	roadSegments      []RoadSegment
	totalDistance     float64 // meters
	estimatedDuration float64 // seconds
	createdAt         time.Time
}

func NewOptimizedRoute(waypoints []Waypoint, segments []RoadSegment, totalDistance, estimatedDuration float64, createdAt time.Time) *OptimizedRoute {
	wps := make([]Waypoint, len(waypoints))
	copy(wps, waypoints)
	segs := make([]RoadSegment, len(segments))
	copy(segs, segments)

	return &OptimizedRoute{
		waypoints:         wps,
		roadSegments:      segs,
		totalDistance:     totalDistance,
		estimatedDuration: estimatedDuration,
		createdAt:         createdAt,
	}
}

func (r *OptimizedRoute) Waypoints() []Waypoint {
	wps := make([]Waypoint, len(r.waypoints))
	copy(wps, r.waypoints)
	return wps
}

func (r *OptimizedRoute) RoadSegments() []RoadSegment {
	segs := make([]RoadSegment, len(r.roadSegments))
	copy(segs, r.roadSegments)
	return segs
}

func (r *OptimizedRoute) TotalDistance() float64 {
	return r.totalDistance
}

func (r *OptimizedRoute) EstimatedDuration() float64 {
	return r.estimatedDuration
}

func (r *OptimizedRoute) CreatedAt() time.Time {
	return r.createdAt
}

func (r *OptimizedRoute) StopCount() int {
	return len(r.waypoints)
}

func (r *OptimizedRoute) TotalDistanceKm() float64 {
	return r.totalDistance / 1000.0
}

func (r *OptimizedRoute) FormattedDistance() string {
	return fmt.Sprintf("%.1f km", r.TotalDistanceKm())
}

func (r *OptimizedRoute) FormattedDuration() string {
	minutes := int(r.estimatedDuration / 60)
	if minutes >= 60 {
		return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d min", minutes)
}

// AllCoordinates concatenates every segment's polyline in order. Adjacent
// segments are assumed contiguous; shared endpoints are not deduplicated.
func (r *OptimizedRoute) AllCoordinates() []datastructure.Coordinate {
	coords := make([]datastructure.Coordinate, 0)
	for _, seg := range r.roadSegments {
		coords = append(coords, seg.Points...)
	}
	return coords
}

type waypointJSON struct {
	ID                   uuid.UUID  `json:"id"`
	Address              string     `json:"address"`
	Latitude             float64    `json:"latitude"`
	Longitude            float64    `json:"longitude"`
	OrderIndex           int        `json:"orderIndex"`
	EstimatedArrivalTime *time.Time `json:"estimatedArrivalTime"`
}

type roadSegmentJSON struct {
	ID              uuid.UUID   `json:"id"`
	FromWaypointID  uuid.UUID   `json:"fromWaypointId"`
	ToWaypointID    uuid.UUID   `json:"toWaypointId"`
	CoordinatesList [][]float64 `json:"coordinatesList"`
	Distance        float64     `json:"distance"`
	RoadClass       *string     `json:"roadClass"`
}

type optimizedRouteJSON struct {
	Waypoints         []waypointJSON    `json:"waypoints"`
	RoadSegments      []roadSegmentJSON `json:"roadSegments"`
	TotalDistance     float64           `json:"totalDistance"`
	EstimatedDuration float64           `json:"estimatedDuration"`
	CreatedAt         time.Time         `json:"createdAt"`
}

func (r *OptimizedRoute) MarshalJSON() ([]byte, error) {
	out := optimizedRouteJSON{
		Waypoints:         make([]waypointJSON, 0, len(r.waypoints)),
		RoadSegments:      make([]roadSegmentJSON, 0, len(r.roadSegments)),
		TotalDistance:     r.totalDistance,
		EstimatedDuration: r.estimatedDuration,
		CreatedAt:         r.createdAt,
	}

	for _, w := range r.waypoints {
		out.Waypoints = append(out.Waypoints, waypointJSON{
			ID:                   w.ID,
			Address:              w.Address,
			Latitude:             w.Lat,
			Longitude:            w.Lon,
			OrderIndex:           w.OrderIndex,
			EstimatedArrivalTime: w.EstimatedArrivalTime,
		})
	}

	for _, seg := range r.roadSegments {
		coords := make([][]float64, 0, len(seg.Points))
		for _, p := range seg.Points {
			coords = append(coords, []float64{p.Lat, p.Lon})
		}

		var roadClass *string
		if seg.RoadClass != "" {
			rc := seg.RoadClass
			roadClass = &rc
		}

		out.RoadSegments = append(out.RoadSegments, roadSegmentJSON{
			ID:              seg.ID,
			FromWaypointID:  seg.FromWaypointID,
			ToWaypointID:    seg.ToWaypointID,
			CoordinatesList: coords,
			Distance:        seg.Distance,
			RoadClass:       roadClass,
		})
	}

	return json.Marshal(out)
}

func (r *OptimizedRoute) UnmarshalJSON(data []byte) error {
	var in optimizedRouteJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	r.waypoints = make([]Waypoint, 0, len(in.Waypoints))
	for _, w := range in.Waypoints {
		r.waypoints = append(r.waypoints, Waypoint{
			ID:                   w.ID,
			Address:              w.Address,
			Lat:                  w.Latitude,
			Lon:                  w.Longitude,
			OrderIndex:           w.OrderIndex,
			EstimatedArrivalTime: w.EstimatedArrivalTime,
		})
	}

	r.roadSegments = make([]RoadSegment, 0, len(in.RoadSegments))
	for _, seg := range in.RoadSegments {
		points := make([]datastructure.Coordinate, 0, len(seg.CoordinatesList))
		for _, pair := range seg.CoordinatesList {
			if len(pair) != 2 {
				return fmt.Errorf("%w: coordinate pair has %d values", ErrDecode, len(pair))
			}
			points = append(points, datastructure.NewCoordinate(pair[0], pair[1]))
		}

		roadClass := ""
		if seg.RoadClass != nil {
			roadClass = *seg.RoadClass
		}

		r.roadSegments = append(r.roadSegments, RoadSegment{
			ID:             seg.ID,
			FromWaypointID: seg.FromWaypointID,
			ToWaypointID:   seg.ToWaypointID,
			Points:         points,
			Distance:       seg.Distance,
			RoadClass:      roadClass,
		})
	}

	r.totalDistance = in.TotalDistance
	r.estimatedDuration = in.EstimatedDuration
	r.createdAt = in.CreatedAt

	return nil
}

// Decode parses a serialized route. Malformed payloads report ErrDecode so
// callers can tell bad data apart from an absent route.
func Decode(data []byte) (*OptimizedRoute, error) {
	var r OptimizedRoute
	if err := json.Unmarshal(data, &r); err != nil {
		if errors.Is(err, ErrDecode) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &r, nil
}
