package tracking

import "sync"

// Registry owns the active TripProgress set, keyed by trip id. The feed
// refresh path is the only writer; the tracker and HTTP handlers read. A
// refresh swaps the whole map in one step so readers never see some trips
// updated and others stale.
type Registry struct {
	mu    sync.RWMutex
	trips map[string]TripProgress
}

// NewRegistry creates an empty trip registry.
func NewRegistry() *Registry {
	return &Registry{trips: map[string]TripProgress{}}
}

// ReplaceAll atomically replaces the registry contents. Trips absent from
// the new set are dropped.
func (r *Registry) ReplaceAll(trips map[string]TripProgress) {
	next := make(map[string]TripProgress, len(trips))
	for id, t := range trips {
		next[id] = t
	}
	r.mu.Lock()
	r.trips = next
	r.mu.Unlock()
}

// Register inserts or replaces a single trip. Upserts are keyed by the
// stable trip id, never recreate-by-default.
func (r *Registry) Register(tripID string, trip TripProgress) {
	r.mu.Lock()
	r.trips[tripID] = trip
	r.mu.Unlock()
}

// Drop removes a trip from the registry.
func (r *Registry) Drop(tripID string) {
	r.mu.Lock()
	delete(r.trips, tripID)
	r.mu.Unlock()
}

// Get returns the trip's current record.
func (r *Registry) Get(tripID string) (TripProgress, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trips[tripID]
	return t, ok
}

// Trips returns a snapshot of all active trips.
func (r *Registry) Trips() []TripProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TripProgress, 0, len(r.trips))
	for _, t := range r.trips {
		out = append(out, t)
	}
	return out
}

// Len returns the number of active trips.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trips)
}
