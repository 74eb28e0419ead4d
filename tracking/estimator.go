package tracking

import (
	"errors"
	"time"

	"github.com/urban-transit-labs/trainwatch/geometry"
	"github.com/urban-transit-labs/trainwatch/routes"
)

// ErrNotPositionable is returned when a trip's time bounds are degenerate
// (arrival not after departure). The caller keeps the train at its last
// rendered coordinate instead of moving it.
var ErrNotPositionable = errors.New("tracking: trip not positionable")

// TripProgress bounds one train between its last-passed stop and its next
// stop. Records are replaced wholesale on feed refresh, never patched.
type TripProgress struct {
	TripID      string
	RouteID     string
	DirectionID string

	PassedStopID string
	NextStopID   string
	PassedCoord  geometry.Coordinate
	NextCoord    geometry.Coordinate

	// Departure is the passed stop's predicted arrival epoch; Arrival is the
	// next stop's. Seconds since the unix epoch.
	Departure int64
	Arrival   int64
}

// Estimator resolves TripProgress records to coordinates using the route
// geometry index. Its methods are pure given now and safe to call at any
// cadence.
type Estimator struct {
	index *routes.Index
}

// NewEstimator creates an estimator backed by the given route geometry index.
func NewEstimator(index *routes.Index) *Estimator {
	return &Estimator{index: index}
}

// Fraction returns the trip's progress in [0,1] at the given instant:
// (now - departure) / (arrival - departure), clamped. Sub-second precision
// is kept so repeated evaluation between feed refreshes produces smooth
// motion. Returns ErrNotPositionable when arrival <= departure.
func (e *Estimator) Fraction(trip TripProgress, now time.Time) (float64, error) {
	if trip.Arrival <= trip.Departure {
		return 0, ErrNotPositionable
	}
	nowSec := float64(now.UnixMilli()) / 1000
	f := (nowSec - float64(trip.Departure)) / float64(trip.Arrival-trip.Departure)
	return geometry.Clamp(f, 0, 1), nil
}

// Position returns the train's estimated coordinate at the given instant.
//
// When the route has a usable polyline, the passed and next stops are
// projected onto it and the position is the point at the linear blend
// d1 + fraction*(d2 - d1). The blend is deliberately unsorted: if the stored
// polyline runs opposite to the direction of travel, d1 > d2 and the target
// still moves monotonically between the two projections. Without a polyline
// the position is the straight-line interpolation between the stops.
func (e *Estimator) Position(trip TripProgress, now time.Time) (geometry.Coordinate, error) {
	fraction, err := e.Fraction(trip, now)
	if err != nil {
		return geometry.Coordinate{}, err
	}

	d1, err1 := e.index.ProjectedDistance(trip.RouteID, trip.PassedCoord)
	if err1 == nil {
		d2, err2 := e.index.ProjectedDistance(trip.RouteID, trip.NextCoord)
		if err2 == nil {
			target := d1 + fraction*(d2-d1)
			return e.index.PointAtDistance(trip.RouteID, target)
		}
	}
	return geometry.Interpolate(trip.PassedCoord, trip.NextCoord, fraction), nil
}
