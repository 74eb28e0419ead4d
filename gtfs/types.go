package gtfs

import "github.com/urban-transit-labs/trainwatch/geometry"

// Station is one entry of the station table: a stop's coordinate, display
// name, and optional parent station id.
type Station struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Coord    geometry.Coordinate `json:"coord"`
	ParentID string              `json:"parentId,omitempty"`
}
