package sim

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"libdb.so/simonglow/internal/game"
	"libdb.so/simonglow/internal/indicator"
	"libdb.so/simonglow/internal/led"
)

var (
	labelColor = color.New(color.FgHiBlack)
	motorColor = color.New(color.FgBlue)
	alertColor = color.New(color.FgRed, color.Bold)
	blinkColor = color.New(color.FgYellow)
)

var ledColors = map[led.RGBColor]*color.Color{
	led.Off:     color.New(color.FgHiBlack),
	led.Red:     color.New(color.FgRed),
	led.Green:   color.New(color.FgGreen),
	led.Yellow:  color.New(color.FgYellow),
	led.Blue:    color.New(color.FgBlue),
	led.Pink:    color.New(color.FgMagenta),
	led.SkyBlue: color.New(color.FgCyan),
	led.White:   color.New(color.FgWhite, color.Bold),
}

// Output prints the robot's outputs to a console.
type Output struct {
	mu     sync.Mutex
	w      io.Writer
	lights *indicator.Mailbox
}

var (
	_ game.IndicatorOutput   = (*Output)(nil)
	_ game.ActuatorOutput    = (*Output)(nil)
	_ indicator.LightsOutput = (*Output)(nil)
)

// NewOutput creates an output printing to w.
func NewOutput(w io.Writer) *Output {
	return &Output{
		w:      w,
		lights: indicator.NewMailbox(),
	}
}

// SetColor implements game.IndicatorOutput.
func (o *Output) SetColor(c led.RGBColor) {
	printer, ok := ledColors[c]
	if !ok {
		printer = color.New(color.Reset)
	}
	o.print("indicator", printer, "● "+c.String())
}

// Drive implements game.ActuatorOutput.
func (o *Output) Drive(dir game.Direction, leftSpeed, rightSpeed uint16) {
	if dir == game.Stop {
		o.print("motors", motorColor, "stop")
		return
	}
	o.print("motors", motorColor, fmt.Sprintf("%s %d/%d", dir, leftSpeed, rightSpeed))
}

// SetLights implements indicator.LightsOutput. Lights are printed by
// PrintLights.
func (o *Output) SetLights(l indicator.Lights) {
	o.lights.SetLights(l)
}

// PrintLights prints light changes until ctx is canceled.
func (o *Output) PrintLights(ctx context.Context) error {
	return o.lights.Run(ctx, func(l indicator.Lights) error {
		printer := blinkColor
		if l.Has(indicator.Alert) {
			printer = alertColor
		}
		o.print("lights", printer, l.String())
		return nil
	})
}

func (o *Output) print(label string, printer *color.Color, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	labelColor.Fprintf(o.w, "%-10s ", label)
	printer.Fprintln(o.w, value)
}
