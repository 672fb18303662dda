// Package indicator implements the chassis status lights: a slow blink while
// the robot is waiting, latched to an alert as long as a collision is
// reported.
package indicator

import (
	"strings"
	"sync/atomic"
)

// Lights is a bitmask of the chassis light pairs.
type Lights uint8

const (
	// Waiting is the front pair, blinking while no collision is reported.
	Waiting Lights = 1 << iota
	// Alert is the back pair, lit while a collision is reported.
	Alert
)

// Has returns true if every light in l2 is on in l.
func (l Lights) Has(l2 Lights) bool { return l&l2 == l2 }

// String returns the names of the lit pairs.
func (l Lights) String() string {
	var parts []string
	if l.Has(Waiting) {
		parts = append(parts, "waiting")
	}
	if l.Has(Alert) {
		parts = append(parts, "alert")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// LightsOutput drives the chassis lights. SetLights is called from the tick
// handler, so implementations must not block.
type LightsOutput interface {
	SetLights(l Lights)
}

// CollisionFlag is set by whatever detects collisions and read on every tick.
// It is safe for concurrent use.
type CollisionFlag struct {
	asserted atomic.Bool
}

// Set asserts or clears the flag.
func (f *CollisionFlag) Set(asserted bool) { f.asserted.Store(asserted) }

// Asserted returns true if a collision is currently reported.
func (f *CollisionFlag) Asserted() bool { return f.asserted.Load() }

// DefaultBlinkTicks is the number of ticks between two blink toggles.
const DefaultBlinkTicks = 500

// PeriodicIndicator is the tick-driven state machine behind the chassis
// lights. Tick must only be called from one goroutine.
type PeriodicIndicator struct {
	out       LightsOutput
	collision *CollisionFlag
	period    uint32

	elapsed uint32
	lights  Lights
}

// NewPeriodicIndicator creates an indicator that toggles the waiting lights
// every period ticks. A zero period uses DefaultBlinkTicks.
func NewPeriodicIndicator(out LightsOutput, collision *CollisionFlag, period uint32) *PeriodicIndicator {
	if period == 0 {
		period = DefaultBlinkTicks
	}
	return &PeriodicIndicator{
		out:       out,
		collision: collision,
		period:    period,
	}
}

// Tick advances the indicator by one tick. While a collision is asserted the
// alert lights are forced on and the waiting lights off on every tick, and
// the elapsed count is left alone. Otherwise the elapsed count advances and,
// once it reaches the period, the waiting lights toggle, the alert lights go
// off and the count restarts.
func (p *PeriodicIndicator) Tick() {
	if p.collision.Asserted() {
		p.lights = Alert
		p.out.SetLights(p.lights)
		return
	}

	p.elapsed++
	if p.elapsed >= p.period {
		p.lights = (p.lights &^ Alert) ^ Waiting
		p.out.SetLights(p.lights)
		p.elapsed = 0
	}
}

// Lights returns the lights as last set by Tick.
func (p *PeriodicIndicator) Lights() Lights { return p.lights }

// Elapsed returns the ticks counted since the last toggle.
func (p *PeriodicIndicator) Elapsed() uint32 { return p.elapsed }
