package routes

import (
	"errors"
	"math"
	"sync"

	"github.com/urban-transit-labs/trainwatch/geometry"
)

// ErrUnknownRoute is returned when a route id has no usable polyline.
var ErrUnknownRoute = errors.New("routes: unknown route")

// Index stores route polylines keyed by route id alongside their cumulative
// great-circle distance tables. Writes happen on the load path only; the
// estimator and HTTP handlers are read-only consumers.
type Index struct {
	mu         sync.RWMutex
	polylines  map[string][]geometry.Coordinate
	cumulative map[string][]float64 // meters from first point through point i
}

// NewIndex creates an empty route geometry index.
func NewIndex() *Index {
	return &Index{
		polylines:  map[string][]geometry.Coordinate{},
		cumulative: map[string][]float64{},
	}
}

// Load stores the polyline for routeID and computes its cumulative distance
// table, replacing any prior entry. Duplicate consecutive points are kept and
// contribute zero-length segments.
func (ix *Index) Load(routeID string, coords []geometry.Coordinate) {
	pts := make([]geometry.Coordinate, len(coords))
	copy(pts, coords)

	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + geometry.Distance(pts[i-1], pts[i])
	}

	ix.mu.Lock()
	ix.polylines[routeID] = pts
	ix.cumulative[routeID] = cum
	ix.mu.Unlock()
}

// ProjectedDistance returns the distance in meters along routeID's polyline
// of the point nearest to p. Ties across segments resolve to the earliest
// segment index. Returns ErrUnknownRoute when the route is absent or its
// polyline has fewer than two points.
func (ix *Index) ProjectedDistance(routeID string, p geometry.Coordinate) (float64, error) {
	ix.mu.RLock()
	pts := ix.polylines[routeID]
	cum := ix.cumulative[routeID]
	ix.mu.RUnlock()

	if len(pts) < 2 {
		return 0, ErrUnknownRoute
	}

	best := math.MaxFloat64
	bestDist := 0.0
	for i := 0; i+1 < len(pts); i++ {
		t := geometry.ProjectFraction(p, pts[i], pts[i+1])
		snapped := geometry.Interpolate(pts[i], pts[i+1], t)
		d := geometry.Distance(p, snapped)
		if d < best {
			best = d
			bestDist = cum[i] + t*(cum[i+1]-cum[i])
		}
	}
	return bestDist, nil
}

// PointAtDistance returns the coordinate at the given distance in meters
// along routeID's polyline. Distances beyond the final cumulative value clamp
// to the last point; negative distances clamp to the first.
func (ix *Index) PointAtDistance(routeID string, distance float64) (geometry.Coordinate, error) {
	ix.mu.RLock()
	pts := ix.polylines[routeID]
	cum := ix.cumulative[routeID]
	ix.mu.RUnlock()

	if len(pts) < 2 {
		return geometry.Coordinate{}, ErrUnknownRoute
	}
	if distance <= 0 {
		return pts[0], nil
	}
	if distance >= cum[len(cum)-1] {
		return pts[len(pts)-1], nil
	}
	for i := 1; i < len(cum); i++ {
		if cum[i] >= distance {
			segLen := cum[i] - cum[i-1]
			t := 0.0
			if segLen > 0 {
				t = (distance - cum[i-1]) / segLen
			}
			return geometry.Interpolate(pts[i-1], pts[i], t), nil
		}
	}
	return pts[len(pts)-1], nil
}

// TotalLength returns the full arc length of routeID's polyline in meters.
func (ix *Index) TotalLength(routeID string) (float64, error) {
	ix.mu.RLock()
	cum := ix.cumulative[routeID]
	ix.mu.RUnlock()
	if len(cum) < 2 {
		return 0, ErrUnknownRoute
	}
	return cum[len(cum)-1], nil
}

// Polyline returns a copy of routeID's stored polyline.
func (ix *Index) Polyline(routeID string) ([]geometry.Coordinate, error) {
	ix.mu.RLock()
	pts := ix.polylines[routeID]
	ix.mu.RUnlock()
	if len(pts) < 2 {
		return nil, ErrUnknownRoute
	}
	out := make([]geometry.Coordinate, len(pts))
	copy(out, pts)
	return out, nil
}

// Has reports whether routeID has a usable polyline.
func (ix *Index) Has(routeID string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.polylines[routeID]) >= 2
}

// Routes returns the ids of all loaded routes.
func (ix *Index) Routes() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	ids := make([]string, 0, len(ix.polylines))
	for id := range ix.polylines {
		ids = append(ids, id)
	}
	return ids
}
