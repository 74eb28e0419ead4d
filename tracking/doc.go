// Package tracking estimates live train positions between stops.
//
// A TripProgress record bounds one train between its last-passed stop and
// its next stop in both time (predicted arrival epochs) and space (station
// coordinates). The Estimator turns those bounds into a coordinate: progress
// fraction from the clock, projected distances along the route polyline from
// the routes index, and a point-at-distance lookup. Trains on routes without
// usable geometry fall back to straight-line interpolation between the two
// stops.
//
// The Registry holds the active TripProgress set and is replaced wholesale
// on each feed refresh, so readers never observe a half-updated set. Trains
// whose time bounds are degenerate are frozen at their last good coordinate
// rather than moved or dropped.
package tracking
