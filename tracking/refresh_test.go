package tracking

import (
	"testing"
	"time"

	"github.com/urban-transit-labs/trainwatch/geometry"
	"github.com/urban-transit-labs/trainwatch/gtfs"
	"github.com/urban-transit-labs/trainwatch/gtfsrt"
)

func staticWithStations() *gtfs.Index {
	g := gtfs.NewIndex()
	g.Stations["S1"] = gtfs.Station{ID: "S1", Name: "First St", Coord: geometry.Coordinate{Lat: 40.0, Lon: -74.0}}
	g.Stations["S2"] = gtfs.Station{ID: "S2", Name: "Second St", Coord: geometry.Coordinate{Lat: 40.01, Lon: -74.0}}
	g.Stations["S3"] = gtfs.Station{ID: "S3", Name: "Third St", Coord: geometry.Coordinate{Lat: 40.02, Lon: -74.0}}
	// S2N is a directional child platform with no coordinate of its own.
	g.Stations["S2N"] = gtfs.Station{ID: "S2N", ParentID: "S2"}
	return g
}

func TestRefresher_BuildsBoundsAroundNow(t *testing.T) {
	reg := NewRegistry()
	r := NewRefresher(staticWithStations(), reg)

	snap := &gtfsrt.FeedSnapshot{Trips: []gtfsrt.TripUpdate{{
		TripID:  "t1",
		RouteID: "A",
		Predictions: []gtfsrt.StopPrediction{
			{StopID: "S1", Arrival: 1000},
			{StopID: "S2", Arrival: 1100},
			{StopID: "S3", Arrival: 1200},
		},
	}}}

	if n := r.Apply(snap, time.Unix(1150, 0)); n != 1 {
		t.Fatalf("Apply = %d trips, want 1", n)
	}
	trip, ok := reg.Get("t1")
	if !ok {
		t.Fatal("trip not registered")
	}
	if trip.PassedStopID != "S2" || trip.NextStopID != "S3" {
		t.Errorf("bounds = %s -> %s, want S2 -> S3", trip.PassedStopID, trip.NextStopID)
	}
	if trip.Departure != 1100 || trip.Arrival != 1200 {
		t.Errorf("epochs = %d -> %d, want 1100 -> 1200", trip.Departure, trip.Arrival)
	}
}

func TestRefresher_BeforeFirstStopHoldsAtFirstStop(t *testing.T) {
	reg := NewRegistry()
	r := NewRefresher(staticWithStations(), reg)

	snap := &gtfsrt.FeedSnapshot{Trips: []gtfsrt.TripUpdate{{
		TripID:  "t1",
		RouteID: "A",
		Predictions: []gtfsrt.StopPrediction{
			{StopID: "S1", Arrival: 2000},
			{StopID: "S2", Arrival: 2100},
		},
	}}}
	r.Apply(snap, time.Unix(1500, 0))

	trip, _ := reg.Get("t1")
	if trip.PassedStopID != "S1" || trip.NextStopID != "S1" {
		t.Errorf("train ahead of schedule data should collapse onto first stop, got %s -> %s", trip.PassedStopID, trip.NextStopID)
	}
	if trip.Arrival > trip.Departure {
		t.Error("collapsed bounds should be degenerate so the tracker holds the train")
	}
}

func TestRefresher_DropsTripsAbsentFromSnapshot(t *testing.T) {
	reg := NewRegistry()
	r := NewRefresher(staticWithStations(), reg)

	both := &gtfsrt.FeedSnapshot{Trips: []gtfsrt.TripUpdate{
		{TripID: "t1", RouteID: "A", Predictions: []gtfsrt.StopPrediction{{StopID: "S1", Arrival: 1000}, {StopID: "S2", Arrival: 1100}}},
		{TripID: "t2", RouteID: "A", Predictions: []gtfsrt.StopPrediction{{StopID: "S2", Arrival: 1000}, {StopID: "S3", Arrival: 1100}}},
	}}
	r.Apply(both, time.Unix(1050, 0))
	if reg.Len() != 2 {
		t.Fatalf("expected 2 trips after refresh N, got %d", reg.Len())
	}

	onlyFirst := &gtfsrt.FeedSnapshot{Trips: both.Trips[:1]}
	r.Apply(onlyFirst, time.Unix(1080, 0))
	if _, ok := reg.Get("t2"); ok {
		t.Error("t2 absent from refresh N+1 should be dropped")
	}
	if _, ok := reg.Get("t1"); !ok {
		t.Error("t1 should survive refresh N+1")
	}
}

func TestRefresher_CarriesForwardUnresolvableListedTrip(t *testing.T) {
	reg := NewRegistry()
	r := NewRefresher(staticWithStations(), reg)

	good := &gtfsrt.FeedSnapshot{Trips: []gtfsrt.TripUpdate{{
		TripID:  "t1",
		RouteID: "A",
		Predictions: []gtfsrt.StopPrediction{
			{StopID: "S1", Arrival: 1000},
			{StopID: "S2", Arrival: 1100},
		},
	}}}
	r.Apply(good, time.Unix(1050, 0))
	before, _ := reg.Get("t1")

	// Next refresh still lists the trip but with no usable times: the
	// previous bounds stay in place.
	degraded := &gtfsrt.FeedSnapshot{Trips: []gtfsrt.TripUpdate{{
		TripID:      "t1",
		RouteID:     "A",
		Predictions: []gtfsrt.StopPrediction{{StopID: "S2", Arrival: 0}},
	}}}
	r.Apply(degraded, time.Unix(1060, 0))

	after, ok := reg.Get("t1")
	if !ok {
		t.Fatal("listed trip should not be dropped")
	}
	if after != before {
		t.Errorf("unresolvable update should retain previous bounds: %+v vs %+v", after, before)
	}
}

func TestRefresher_ResolvesParentStationCoordinate(t *testing.T) {
	reg := NewRegistry()
	r := NewRefresher(staticWithStations(), reg)

	snap := &gtfsrt.FeedSnapshot{Trips: []gtfsrt.TripUpdate{{
		TripID:  "t1",
		RouteID: "A",
		Predictions: []gtfsrt.StopPrediction{
			{StopID: "S1", Arrival: 1000},
			{StopID: "S2N", Arrival: 1100},
		},
	}}}
	r.Apply(snap, time.Unix(1050, 0))

	trip, _ := reg.Get("t1")
	want := geometry.Coordinate{Lat: 40.01, Lon: -74.0}
	if trip.NextCoord != want {
		t.Errorf("child platform should resolve to parent coordinate, got %+v", trip.NextCoord)
	}
}

func TestRefresher_RouteIDFromStaticWhenFeedOmitsIt(t *testing.T) {
	static := staticWithStations()
	static.TripRoute["t1"] = "A"
	reg := NewRegistry()
	r := NewRefresher(static, reg)

	snap := &gtfsrt.FeedSnapshot{Trips: []gtfsrt.TripUpdate{{
		TripID: "t1",
		Predictions: []gtfsrt.StopPrediction{
			{StopID: "S1", Arrival: 1000},
			{StopID: "S2", Arrival: 1100},
		},
	}}}
	r.Apply(snap, time.Unix(1050, 0))

	trip, _ := reg.Get("t1")
	if trip.RouteID != "A" {
		t.Errorf("route id should come from static trips table, got %q", trip.RouteID)
	}
}
