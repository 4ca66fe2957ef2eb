package memory

import (
	"context"
	"sync"
	"time"
)

// Clock is a manual ports.Clock. Sleep returns immediately after moving
// the clock forward, so lock-wait and timestamp behavior is testable
// without wall-clock delay.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a manual clock starting at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current manual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep advances the clock by d and returns, honoring a canceled context.
func (c *Clock) Sleep(ctx context.Context, d time.Duration) {
	if ctx.Err() != nil {
		return
	}
	c.Advance(d)
}
