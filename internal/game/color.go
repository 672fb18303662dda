// Package game implements the color sequence game: classifying colors held up
// to the sensor, judging them against a random target pattern and driving the
// robot's feedback.
package game

import (
	"fmt"

	"libdb.so/simonglow/internal/led"
)

// Color is a color the game can recognize.
type Color uint8

const (
	Green Color = iota
	Red
	Yellow
	// Unknown means the sensor reading could not be confidently classified.
	// It is never part of a Pattern.
	Unknown
)

// PatternColors lists the colors a Pattern may contain.
var PatternColors = [...]Color{Green, Red, Yellow}

// String returns the lowercase name of the color.
func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Color(%d)", c)
	}
}

// LED returns the indicator color used to display c. Unknown maps to off.
func (c Color) LED() led.RGBColor {
	switch c {
	case Green:
		return led.Green
	case Red:
		return led.Red
	case Yellow:
		return led.Yellow
	default:
		return led.Off
	}
}
