// Package metrics exposes Prometheus instrumentation for the feed poller,
// the recompute loop, and the position stream.
package metrics
