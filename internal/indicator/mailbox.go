package indicator

import (
	"context"
	"sync/atomic"
)

// Mailbox is a LightsOutput that hands the latest lights over to another
// goroutine, so the tick handler never waits on a slow output. Intermediate
// values may be skipped; only the most recent one is delivered.
type Mailbox struct {
	lights atomic.Uint32
	notify chan struct{}
}

var _ LightsOutput = (*Mailbox)(nil)

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{notify: make(chan struct{}, 1)}
}

// SetLights implements LightsOutput. It never blocks.
func (m *Mailbox) SetLights(l Lights) {
	m.lights.Store(uint32(l))
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Run calls f with the latest lights whenever they change, until ctx is
// canceled or f returns an error.
func (m *Mailbox) Run(ctx context.Context, f func(Lights) error) error {
	var last Lights
	var delivered bool

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.notify:
			l := Lights(m.lights.Load())
			if delivered && l == last {
				continue
			}
			if err := f(l); err != nil {
				return err
			}
			last, delivered = l, true
		}
	}
}
