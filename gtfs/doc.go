/*
Package gtfs loads and indexes the static GTFS data the estimator needs:
stations, routes, and route shape geometry.

The index is built once at startup from a GTFS zip (HTTP URL or local path)
and is read-only afterwards. It does not retain stop_times or calendar data;
arrival predictions come exclusively from the realtime feed.

Parse GTFS once and keep the index in memory. For faster restarts the index
can be serialized to a gob cache file and reloaded without touching the zip.
*/
package gtfs
