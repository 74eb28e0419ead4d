// Package gtfsrt fetches and decodes GTFS-Realtime trip-updates feeds into
// the flat snapshot form the estimator consumes: per trip, the route id and
// the ordered list of (stop id, predicted arrival epoch) pairs.
//
// Fetching fans out across endpoints; a failing endpoint contributes nothing
// and does not invalidate the others.
package gtfsrt
