package game

import (
	"context"
	"fmt"

	"libdb.so/simonglow/internal/led"
)

// SensorSource supplies normalized color sensor readings.
type SensorSource interface {
	// Read returns the next best-effort sample. It may block briefly. A
	// misbehaving sensor surfaces as samples that classify as Unknown; an
	// error is only returned when the source itself is gone or ctx is done.
	Read(ctx context.Context) (SensorSample, error)
}

// IndicatorOutput drives the RGB indicator. Calls are fire-and-forget.
type IndicatorOutput interface {
	SetColor(c led.RGBColor)
}

// Direction is a motor maneuver.
type Direction uint8

const (
	Stop Direction = iota
	Forward
	Backward
	Left
	Right
)

// String returns the name of the direction.
func (d Direction) String() string {
	switch d {
	case Stop:
		return "stop"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// ActuatorOutput drives the two-channel motor. Calls are fire-and-forget.
type ActuatorOutput interface {
	Drive(dir Direction, leftSpeed, rightSpeed uint16)
}

// DiagnosticSink receives game events for display. It is never required for
// correctness.
type DiagnosticSink interface {
	SampleRead(s SensorSample)
	ColorDetected(c Color)
	VerdictReached(v Verdict)
}

type nopSink struct{}

func (nopSink) SampleRead(SensorSample) {}
func (nopSink) ColorDetected(Color)     {}
func (nopSink) VerdictReached(Verdict)  {}
