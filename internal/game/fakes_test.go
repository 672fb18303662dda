package game

import (
	"context"
	"fmt"
	"io"
	"time"

	"libdb.so/simonglow/internal/clock"
	"libdb.so/simonglow/internal/led"
)

var (
	greenSample   = SensorSample{Red: 1000, Green: 9000, Blue: 1000}
	redSample     = SensorSample{Red: 20000, Green: 1000, Blue: 1000}
	yellowSample  = SensorSample{Red: 0x3000, Green: 0x3000, Blue: 0x1000}
	unknownSample = SensorSample{}
)

func sampleOf(c Color) SensorSample {
	switch c {
	case Green:
		return greenSample
	case Red:
		return redSample
	case Yellow:
		return yellowSample
	default:
		return unknownSample
	}
}

type output struct {
	At   time.Duration
	What string
}

// recorder records indicator and actuator outputs on the fake clock's
// timeline.
type recorder struct {
	clock   *clock.Fake
	outputs []output
}

func newRecorder(clk *clock.Fake) *recorder {
	return &recorder{clock: clk}
}

func (r *recorder) SetColor(c led.RGBColor) {
	r.outputs = append(r.outputs, output{r.clock.Now(), "led " + c.String()})
}

func (r *recorder) Drive(dir Direction, left, right uint16) {
	r.outputs = append(r.outputs, output{r.clock.Now(), fmt.Sprintf("drive %s %d %d", dir, left, right)})
}

func (r *recorder) reset() {
	r.outputs = nil
}

// scriptedSensor returns the given samples in order and io.EOF afterwards.
type scriptedSensor struct {
	samples []SensorSample
}

func (s *scriptedSensor) Read(ctx context.Context) (SensorSample, error) {
	if err := ctx.Err(); err != nil {
		return SensorSample{}, err
	}
	if len(s.samples) == 0 {
		return SensorSample{}, io.EOF
	}
	sample := s.samples[0]
	s.samples = s.samples[1:]
	return sample, nil
}

type diagEvent struct {
	Kind  string
	Value string
}

type diagRecorder struct {
	events []diagEvent
}

func (d *diagRecorder) SampleRead(s SensorSample) {
	d.events = append(d.events, diagEvent{"sample", s.String()})
}

func (d *diagRecorder) ColorDetected(c Color) {
	d.events = append(d.events, diagEvent{"color", c.String()})
}

func (d *diagRecorder) VerdictReached(v Verdict) {
	d.events = append(d.events, diagEvent{"verdict", v.String()})
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
