// Package scheduler drives position recomputation between feed refreshes.
//
// Clock maintains the single shared time reference every fraction
// calculation reads, updated on a fixed sub-second period so train motion is
// decoupled from both the rendering frame rate and the feed polling cadence.
//
// Scheduler coalesces recompute requests: a periodic cadence, forced
// requests after feed refreshes, and trailing requests after user
// interaction gestures all funnel into a single loop that runs the recompute
// at most once per minimum interval and never queues more than one pending
// execution. While a gesture is in progress requests are suppressed; the
// gesture end always forces one trailing run.
package scheduler
