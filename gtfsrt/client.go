package gtfsrt

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Client fetches GTFS-RT protobuf data over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client. A zero timeout means no limit.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch fetches a single GTFS-RT feed and returns the decoded message.
// Returns nil without error when url is empty (allows optional endpoints).
func (c *Client) Fetch(url string) (*gtfsrtpb.FeedMessage, error) {
	if url == "" {
		return nil, nil
	}
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return &fm, nil
}

// endpointResult carries one endpoint's outcome through the fan-in join.
type endpointResult struct {
	fm  *gtfsrtpb.FeedMessage
	err error
}

// FetchSnapshot fetches every endpoint concurrently and combines whatever
// succeeded into one snapshot. It returns an error only when all configured
// endpoints failed, so a partial outage still refreshes the trips it can.
func (c *Client) FetchSnapshot(urls []string) (*FeedSnapshot, error) {
	results := make([]endpointResult, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			fm, err := c.Fetch(url)
			results[i] = endpointResult{fm: fm, err: err}
		}(i, url)
	}
	wg.Wait()

	snap := &FeedSnapshot{}
	okCount := 0
	var lastErr error
	for _, r := range results {
		if r.err != nil {
			lastErr = r.err
			continue
		}
		okCount++
		if r.fm == nil {
			continue
		}
		appendFeed(snap, r.fm)
	}
	if okCount == 0 && len(urls) > 0 {
		return nil, fmt.Errorf("all %d endpoints failed: %w", len(urls), lastErr)
	}
	return snap, nil
}

func appendFeed(snap *FeedSnapshot, fm *gtfsrtpb.FeedMessage) {
	if fm.Header != nil && fm.Header.Timestamp != nil {
		if ts := int64(*fm.Header.Timestamp); ts > snap.Timestamp {
			snap.Timestamp = ts
		}
	}
	for _, e := range fm.Entity {
		tu := e.TripUpdate
		if tu == nil || tu.Trip == nil || tu.Trip.TripId == nil {
			continue
		}
		update := TripUpdate{TripID: *tu.Trip.TripId}
		if tu.Trip.RouteId != nil {
			update.RouteID = *tu.Trip.RouteId
		}
		if tu.Trip.DirectionId != nil {
			update.DirectionID = string(rune(*tu.Trip.DirectionId + '0'))
		}
		for _, stu := range tu.StopTimeUpdate {
			if stu.StopId == nil {
				continue
			}
			p := StopPrediction{StopID: *stu.StopId}
			if stu.Arrival != nil && stu.Arrival.Time != nil {
				p.Arrival = *stu.Arrival.Time
			} else if stu.Departure != nil && stu.Departure.Time != nil {
				// Some operators only populate departures; good enough as an
				// arrival bound for interpolation.
				p.Arrival = *stu.Departure.Time
			}
			update.Predictions = append(update.Predictions, p)
		}
		snap.Trips = append(snap.Trips, update)
	}
}
