package gtfs

import (
	"github.com/urban-transit-labs/trainwatch/config"
	"github.com/urban-transit-labs/trainwatch/geometry"
)

// Index stores GTFS static data in memory for fast lookups. Fields are
// exported so the index can round-trip through the gob cache.
type Index struct {
	AgencyID   string
	AgencyName string
	AgencyTZ   string
	Stations   map[string]Station                // stop_id -> station
	RouteNames map[string]string                 // route_id -> short_name
	TripRoute  map[string]string                 // trip_id -> route_id
	TripShape  map[string]string                 // trip_id -> shape_id
	Shapes     map[string][]geometry.Coordinate  // shape_id -> ordered points
	shapeLen   map[string]float64                // shape_id -> arc length, lazy
}

// NewIndex creates a new empty GTFS index.
func NewIndex() *Index {
	return &Index{
		Stations:   map[string]Station{},
		RouteNames: map[string]string{},
		TripRoute:  map[string]string{},
		TripShape:  map[string]string{},
		Shapes:     map[string][]geometry.Coordinate{},
		shapeLen:   map[string]float64{},
	}
}

// NewIndexFromConfig creates and loads a GTFS index from configuration.
// StaticURL may be an HTTP URL or a local zip path.
func NewIndexFromConfig(cfg config.GTFSConfig) (*Index, error) {
	g := NewIndex()
	g.AgencyID = cfg.AgencyID
	if cfg.StaticURL == "" {
		return g, nil
	}
	if err := g.loadStaticZip(cfg.StaticURL); err != nil {
		return g, err
	}
	return g, nil
}

// Station returns the station table entry for stopID.
func (g *Index) Station(stopID string) (Station, bool) {
	s, ok := g.Stations[stopID]
	return s, ok
}

// StationCoord returns the coordinate for stopID, falling back to the parent
// station when the stop itself carries no coordinate.
func (g *Index) StationCoord(stopID string) (geometry.Coordinate, bool) {
	s, ok := g.Stations[stopID]
	if !ok {
		return geometry.Coordinate{}, false
	}
	if s.Coord == (geometry.Coordinate{}) && s.ParentID != "" {
		if p, ok := g.Stations[s.ParentID]; ok {
			return p.Coord, true
		}
	}
	return s.Coord, true
}

// RouteShortName returns the display name for routeID.
func (g *Index) RouteShortName(routeID string) string { return g.RouteNames[routeID] }

// Routes returns all known route ids.
func (g *Index) Routes() []string {
	ids := make([]string, 0, len(g.RouteNames))
	for id := range g.RouteNames {
		ids = append(ids, id)
	}
	return ids
}

// RouteGeometries maps each route id to its representative polyline: the
// longest shape (by arc length) among the route's trips. Routes without
// shape data are omitted; trains on those routes fall back to straight-line
// interpolation.
func (g *Index) RouteGeometries() map[string][]geometry.Coordinate {
	best := map[string]string{} // route_id -> shape_id
	for tripID, routeID := range g.TripRoute {
		shapeID := g.TripShape[tripID]
		if len(g.Shapes[shapeID]) < 2 {
			continue
		}
		if cur, ok := best[routeID]; !ok || g.shapeLength(shapeID) > g.shapeLength(cur) {
			best[routeID] = shapeID
		}
	}
	out := make(map[string][]geometry.Coordinate, len(best))
	for routeID, shapeID := range best {
		out[routeID] = g.Shapes[shapeID]
	}
	return out
}

func (g *Index) shapeLength(shapeID string) float64 {
	if g.shapeLen == nil {
		g.shapeLen = map[string]float64{}
	}
	if l, ok := g.shapeLen[shapeID]; ok {
		return l
	}
	pts := g.Shapes[shapeID]
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += geometry.Distance(pts[i-1], pts[i])
	}
	g.shapeLen[shapeID] = total
	return total
}
