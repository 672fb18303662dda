// Package led describes the colors shown on the robot's RGB indicator.
package led

import "fmt"

// RGBColor is a color in 8-bit RGB order.
type RGBColor [3]uint8

// Palette of the on-board RGB indicator. The indicator is a discrete
// three-channel LED, so every color is a combination of fully on or fully off
// channels.
var (
	Off     = RGBColor{0x00, 0x00, 0x00}
	Red     = RGBColor{0xFF, 0x00, 0x00}
	Green   = RGBColor{0x00, 0xFF, 0x00}
	Yellow  = RGBColor{0xFF, 0xFF, 0x00}
	Blue    = RGBColor{0x00, 0x00, 0xFF}
	Pink    = RGBColor{0xFF, 0x00, 0xFF}
	SkyBlue = RGBColor{0x00, 0xFF, 0xFF}
	White   = RGBColor{0xFF, 0xFF, 0xFF}
)

var names = map[RGBColor]string{
	Off:     "off",
	Red:     "red",
	Green:   "green",
	Yellow:  "yellow",
	Blue:    "blue",
	Pink:    "pink",
	SkyBlue: "sky-blue",
	White:   "white",
}

// R returns the red channel.
func (c RGBColor) R() uint8 { return c[0] }

// G returns the green channel.
func (c RGBColor) G() uint8 { return c[1] }

// B returns the blue channel.
func (c RGBColor) B() uint8 { return c[2] }

// IsOff returns true if all channels are off.
func (c RGBColor) IsOff() bool { return c == Off }

// String returns the palette name of the color, or its hex notation if the
// color is not part of the palette.
func (c RGBColor) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts either a
// palette name or a #rrggbb hex string.
func (c *RGBColor) UnmarshalText(text []byte) error {
	s := string(text)
	for color, name := range names {
		if name == s {
			*c = color
			return nil
		}
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("invalid color %q", s)
	}
	*c = RGBColor{r, g, b}
	return nil
}
