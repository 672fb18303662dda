package game

import (
	"time"

	"libdb.so/simonglow/internal/led"
)

// Timing holds the durations, motor speeds and feedback colors of the game.
// The values are tuned for how responsive the robot feels, not derived from
// measurements.
type Timing struct {
	// SampleInterval is the pause after every sensor read.
	SampleInterval time.Duration
	// Hold is how long a recognized color is held before it is judged.
	Hold time.Duration

	// ShowOn is how long each pattern color is shown.
	ShowOn time.Duration
	// ShowOff is the dark gap after each pattern color.
	ShowOff time.Duration

	// StepPulse is the length of the white pulse after a correct color.
	StepPulse time.Duration

	SuccessGlow  time.Duration
	SuccessDrive time.Duration
	SuccessSpeed uint16

	FailureGlow   time.Duration
	FailureSettle time.Duration
	FailureTurn   time.Duration
	FailureSpeed  uint16

	// StepColor is shown for a correct color, SuccessColor for a completed
	// pattern and FailureColor for a failed one.
	StepColor    led.RGBColor
	SuccessColor led.RGBColor
	FailureColor led.RGBColor
}

// DefaultTiming returns the timing the robot ships with.
func DefaultTiming() Timing {
	return Timing{
		SampleInterval: 50 * time.Millisecond,
		Hold:           1000 * time.Millisecond,
		ShowOn:         700 * time.Millisecond,
		ShowOff:        300 * time.Millisecond,
		StepPulse:      500 * time.Millisecond,
		SuccessGlow:    3000 * time.Millisecond,
		SuccessDrive:   2000 * time.Millisecond,
		SuccessSpeed:   3000,
		FailureGlow:    2500 * time.Millisecond,
		FailureSettle:  500 * time.Millisecond,
		FailureTurn:    2000 * time.Millisecond,
		FailureSpeed:   4500,
		StepColor:      led.White,
		SuccessColor:   led.SkyBlue,
		FailureColor:   led.Pink,
	}
}
