package scheduler

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock is the shared time reference for all progress calculations. Readers
// get the same instant until the next tick, so every train's fraction is
// evaluated against one consistent now.
type Clock struct {
	nanos atomic.Int64
}

// NewClock creates a clock initialized to the current time.
func NewClock() *Clock {
	c := &Clock{}
	c.nanos.Store(time.Now().UnixNano())
	return c
}

// Run advances the clock every period until ctx is cancelled.
func (c *Clock) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// Never move backwards, even if the wall clock does.
			if now.UnixNano() > c.nanos.Load() {
				c.nanos.Store(now.UnixNano())
			}
		}
	}
}

// Now returns the clock's current reading.
func (c *Clock) Now() time.Time {
	return time.Unix(0, c.nanos.Load())
}

// Set forces the clock to a specific instant. Intended for tests and replay.
func (c *Clock) Set(t time.Time) {
	c.nanos.Store(t.UnixNano())
}
