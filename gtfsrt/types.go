package gtfsrt

// StopPrediction is one (stop, predicted arrival) pair of a trip update,
// ordered by stop sequence.
type StopPrediction struct {
	StopID  string
	Arrival int64 // unix epoch seconds; 0 when the feed carried no time
}

// TripUpdate is the decoded realtime state of one trip.
type TripUpdate struct {
	TripID      string
	RouteID     string
	DirectionID string
	Predictions []StopPrediction
}

// FeedSnapshot is the combined decoded state of one fetch cycle across all
// configured endpoints.
type FeedSnapshot struct {
	Timestamp int64 // max header timestamp across endpoints
	Trips     []TripUpdate
}
