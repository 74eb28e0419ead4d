package scheduler

import (
	"context"
	"sync/atomic"
	"time"
)

// Scheduler owns the recompute loop. Every trigger, whether the periodic
// cadence or a feed-refresh completion, goes through Request, which
// coalesces into at most one pending execution.
type Scheduler struct {
	cadence     time.Duration
	minInterval time.Duration
	run         func()

	requests    chan struct{}
	interacting atomic.Bool
}

// NewScheduler creates a scheduler that invokes run on the given cadence and
// never more often than minInterval.
func NewScheduler(cadence, minInterval time.Duration, run func()) *Scheduler {
	return &Scheduler{
		cadence:     cadence,
		minInterval: minInterval,
		run:         run,
		requests:    make(chan struct{}, 1),
	}
}

// Request asks for a recompute. Requests arriving while one is already
// pending collapse into it.
func (s *Scheduler) Request() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

// BeginInteraction suppresses recomputation while a user gesture (pan/zoom)
// is in progress, so position updates do not fight user-driven viewport
// changes.
func (s *Scheduler) BeginInteraction() {
	s.interacting.Store(true)
}

// EndInteraction lifts the suppression and forces one trailing recompute.
func (s *Scheduler) EndInteraction() {
	s.interacting.Store(false)
	s.Request()
}

// Run services requests until ctx is cancelled. Executions are spaced at
// least minInterval apart; a request arriving early is deferred, and anything
// arriving during the deferral joins the same execution.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cadence)
	defer ticker.Stop()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Request()
		case <-s.requests:
			if s.interacting.Load() {
				// Dropped, not deferred: EndInteraction re-requests.
				continue
			}
			if wait := s.minInterval - time.Since(last); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			}
			if s.interacting.Load() {
				continue
			}
			s.run()
			last = time.Now()
		}
	}
}
