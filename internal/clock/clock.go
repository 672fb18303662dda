// Package clock provides the time source used by the game loop.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock is a monotonic time source with a blocking delay.
type Clock interface {
	// Sleep blocks for d or until ctx is canceled, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
	// Now returns the time elapsed since the clock was created.
	Now() time.Duration
}

// Real is a Clock backed by the system's monotonic clock.
type Real struct {
	start time.Time
}

var _ Clock = (*Real)(nil)

// NewReal creates a new real clock starting at zero.
func NewReal() *Real {
	return &Real{start: time.Now()}
}

// Sleep implements Clock.
func (c *Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Now implements Clock.
func (c *Real) Now() time.Duration {
	return time.Since(c.start)
}

// Fake is a Clock whose time only moves when Sleep is called.
// Sleep returns immediately after advancing the clock, which lets timed
// sequences be checked against a virtual timeline.
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	sleeps []time.Duration
}

var _ Clock = (*Fake)(nil)

// NewFake creates a new fake clock starting at zero.
func NewFake() *Fake {
	return &Fake{}
}

// Sleep implements Clock.
func (c *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.now += d
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	return nil
}

// Now implements Clock.
func (c *Fake) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleeps returns a copy of every duration passed to Sleep, in order.
func (c *Fake) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
