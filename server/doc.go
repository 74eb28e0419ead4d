// Package server exposes the computed train positions, route geometry, and
// station table over an HTTP JSON API for map clients. It also carries the
// interaction signals (gesture begin/end) that gate the recompute scheduler.
package server
