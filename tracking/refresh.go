package tracking

import (
	"time"

	"github.com/urban-transit-labs/trainwatch/geometry"
	"github.com/urban-transit-labs/trainwatch/gtfs"
	"github.com/urban-transit-labs/trainwatch/gtfsrt"
)

// Refresher turns decoded feed snapshots into TripProgress records and
// commits them to the registry in one step.
type Refresher struct {
	static   *gtfs.Index
	registry *Registry
}

// NewRefresher creates a refresher resolving stop ids against the static
// station table.
func NewRefresher(static *gtfs.Index, registry *Registry) *Refresher {
	return &Refresher{static: static, registry: registry}
}

// Apply replaces the registry with the snapshot's trips. Trips listed in the
// snapshot but currently unresolvable keep their previous record, so
// interpolation continues on stale-but-valid bounds until a better update
// arrives. Trips absent from the snapshot are dropped. Returns the number of
// active trips after the refresh.
func (r *Refresher) Apply(snap *gtfsrt.FeedSnapshot, now time.Time) int {
	next := make(map[string]TripProgress, len(snap.Trips))
	for _, update := range snap.Trips {
		if update.TripID == "" {
			continue
		}
		if progress, ok := r.buildProgress(update, now); ok {
			next[update.TripID] = progress
			continue
		}
		if prev, ok := r.registry.Get(update.TripID); ok {
			next[update.TripID] = prev
		}
	}
	r.registry.ReplaceAll(next)
	return len(next)
}

type resolvedPrediction struct {
	stopID  string
	coord   geometry.Coordinate
	arrival int64
}

// buildProgress derives the passed/next stop bounds for one trip update at
// the given instant. When the train has not yet passed any listed stop, or
// has passed them all, both bounds collapse onto the same stop and the trip
// is held there until the feed says otherwise.
func (r *Refresher) buildProgress(update gtfsrt.TripUpdate, now time.Time) (TripProgress, bool) {
	routeID := update.RouteID
	if routeID == "" {
		routeID = r.static.TripRoute[update.TripID]
	}

	preds := make([]resolvedPrediction, 0, len(update.Predictions))
	for _, p := range update.Predictions {
		if p.Arrival <= 0 {
			continue
		}
		coord, ok := r.static.StationCoord(p.StopID)
		if !ok {
			continue
		}
		preds = append(preds, resolvedPrediction{stopID: p.StopID, coord: coord, arrival: p.Arrival})
	}
	if len(preds) == 0 {
		return TripProgress{}, false
	}

	nowSec := now.Unix()
	nextIdx := len(preds)
	for i, p := range preds {
		if p.arrival > nowSec {
			nextIdx = i
			break
		}
	}

	var passed, nextStop resolvedPrediction
	switch {
	case nextIdx == 0:
		passed, nextStop = preds[0], preds[0]
	case nextIdx == len(preds):
		passed, nextStop = preds[len(preds)-1], preds[len(preds)-1]
	default:
		passed, nextStop = preds[nextIdx-1], preds[nextIdx]
	}

	return TripProgress{
		TripID:       update.TripID,
		RouteID:      routeID,
		DirectionID:  update.DirectionID,
		PassedStopID: passed.stopID,
		NextStopID:   nextStop.stopID,
		PassedCoord:  passed.coord,
		NextCoord:    nextStop.coord,
		Departure:    passed.arrival,
		Arrival:      nextStop.arrival,
	}, true
}
