package game

import "fmt"

// SensorSample is a normalized red, green and blue intensity reading.
type SensorSample struct {
	Red   uint16
	Green uint16
	Blue  uint16
}

// String formats the sample the way the firmware prints it.
func (s SensorSample) String() string {
	return fmt.Sprintf("r=%04x g=%04x b=%04x", s.Red, s.Green, s.Blue)
}

// Classification thresholds, calibrated against the sensor's normalized
// output range.
const (
	greenMargin = 3000
	yellowMinRG = 0x2000
	yellowMaxB  = 0x3000
	redMargin   = 6000
)

// Classify maps a sensor sample to a Color. Rules are checked in order and the
// first match wins, so a sample that is both green-dominant and bright in red
// and green is Green, not Yellow.
func Classify(s SensorSample) Color {
	r, g, b := int(s.Red), int(s.Green), int(s.Blue)

	switch {
	case g > r+greenMargin && g > b+greenMargin:
		return Green
	case r > yellowMinRG && g > yellowMinRG && b < yellowMaxB:
		return Yellow
	case r > g+redMargin && r > b+redMargin:
		return Red
	default:
		return Unknown
	}
}
