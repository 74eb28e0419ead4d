package tracking

import (
	"sort"
	"sync"
	"time"

	"github.com/urban-transit-labs/trainwatch/geometry"
)

// TrainPosition is one computed position, the unit handed to the rendering
// layer and the position stream.
type TrainPosition struct {
	TripID      string              `json:"tripId"`
	RouteID     string              `json:"routeId"`
	DirectionID string              `json:"directionId,omitempty"`
	Coord       geometry.Coordinate `json:"coord"`
	Bearing     float64             `json:"bearing"`
	Fraction    float64             `json:"fraction"`
	NextStopID  string              `json:"nextStopId,omitempty"`
	// Held marks a train frozen at its last good coordinate because its
	// current time bounds are degenerate.
	Held      bool      `json:"held,omitempty"`
	ComputedAt time.Time `json:"computedAt"`
}

// Tracker evaluates every registered trip against the shared clock and keeps
// the latest computed set for readers. Trains that cannot be positioned keep
// their previous coordinate.
type Tracker struct {
	estimator *Estimator
	registry  *Registry

	mu        sync.RWMutex
	latest    []TrainPosition
	lastCoord map[string]geometry.Coordinate
}

// NewTracker creates a tracker over the given estimator and registry.
func NewTracker(estimator *Estimator, registry *Registry) *Tracker {
	return &Tracker{
		estimator: estimator,
		registry:  registry,
		lastCoord: map[string]geometry.Coordinate{},
	}
}

// Registry returns the trip registry the tracker reads from.
func (t *Tracker) Registry() *Registry { return t.registry }

// Estimator returns the underlying estimator, for callers that derive
// countdowns from the same fraction the positions use.
func (t *Tracker) Estimator() *Estimator { return t.estimator }

// ComputeAll evaluates every active trip at the given instant, stores the
// result as the latest set, and returns it sorted by trip id.
func (t *Tracker) ComputeAll(now time.Time) []TrainPosition {
	trips := t.registry.Trips()
	sort.Slice(trips, func(i, j int) bool { return trips[i].TripID < trips[j].TripID })

	positions := make([]TrainPosition, 0, len(trips))
	nextCoords := make(map[string]geometry.Coordinate, len(trips))
	for _, trip := range trips {
		pos := TrainPosition{
			TripID:      trip.TripID,
			RouteID:     trip.RouteID,
			DirectionID: trip.DirectionID,
			NextStopID:  trip.NextStopID,
			ComputedAt:  now,
		}
		coord, err := t.estimator.Position(trip, now)
		if err != nil {
			// Degenerate bounds: freeze at the last good coordinate, or at
			// the passed stop when the train was never positioned.
			t.mu.RLock()
			held, ok := t.lastCoord[trip.TripID]
			t.mu.RUnlock()
			if !ok {
				held = trip.PassedCoord
			}
			pos.Coord = held
			pos.Held = true
		} else {
			pos.Coord = coord
			pos.Fraction, _ = t.estimator.Fraction(trip, now)
		}
		if trip.PassedCoord != trip.NextCoord {
			pos.Bearing = geometry.Bearing(trip.PassedCoord, trip.NextCoord)
		}
		nextCoords[trip.TripID] = pos.Coord
		positions = append(positions, pos)
	}

	t.mu.Lock()
	t.latest = positions
	t.lastCoord = nextCoords
	t.mu.Unlock()
	return positions
}

// Latest returns the most recently computed position set.
func (t *Tracker) Latest() []TrainPosition {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TrainPosition, len(t.latest))
	copy(out, t.latest)
	return out
}
