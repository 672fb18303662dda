package indicator

import (
	"context"
	"time"
)

// DefaultTickInterval is the nominal tick period.
const DefaultTickInterval = time.Millisecond

// Run calls p.Tick every interval until ctx is canceled. Ticks missed while
// the goroutine was not scheduled are dropped, not replayed.
func Run(ctx context.Context, p *PeriodicIndicator, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Tick()
		}
	}
}
