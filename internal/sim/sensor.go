// Package sim simulates the robot on the host. Sensor samples and bumper
// events are read as text lines; outputs are printed to a console.
package sim

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"libdb.so/simonglow/internal/game"
	"libdb.so/simonglow/internal/indicator"
)

// Canned samples for the color names accepted by ParseLine.
var namedSamples = map[string]game.SensorSample{
	"green":  {Red: 0x1000, Green: 0x4000, Blue: 0x1000},
	"red":    {Red: 0x6000, Green: 0x0800, Blue: 0x0800},
	"yellow": {Red: 0x4000, Green: 0x4000, Blue: 0x1000},
	"none":   {},
}

// Line is one parsed input line.
type Line struct {
	// Sample is set if the line is a sensor sample.
	Sample *game.SensorSample
	// Collision is set if the line is a bumper event.
	Collision *bool
}

// ParseLine parses one input line. Accepted forms are:
//
//	r g b          three intensities, decimal or 0x-prefixed hex
//	green|red|yellow|none
//	bump|release   assert or clear the collision flag
//
// Blank lines and lines starting with # parse to an empty Line.
func ParseLine(text string) (Line, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return Line{}, nil
	}

	switch strings.ToLower(text) {
	case "bump":
		asserted := true
		return Line{Collision: &asserted}, nil
	case "release":
		asserted := false
		return Line{Collision: &asserted}, nil
	}

	if s, ok := namedSamples[strings.ToLower(text)]; ok {
		return Line{Sample: &s}, nil
	}

	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Line{}, errors.Errorf("expected 3 intensities, got %q", text)
	}

	var rgb [3]uint16
	for i, field := range fields {
		v, err := strconv.ParseUint(field, 0, 16)
		if err != nil {
			return Line{}, errors.Wrapf(err, "invalid intensity %q", field)
		}
		rgb[i] = uint16(v)
	}

	s := game.SensorSample{Red: rgb[0], Green: rgb[1], Blue: rgb[2]}
	return Line{Sample: &s}, nil
}

// Sensor is a game.SensorSource fed by text lines.
type Sensor struct {
	samples chan game.SensorSample
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

var _ game.SensorSource = (*Sensor)(nil)

// NewSensor starts reading lines from r. Bumper events are stored in
// collision. Invalid lines are logged and skipped.
//
// The reader goroutine is not tied to a context. Close stops it from waiting
// on Read, but a blocked read on a terminal cannot be interrupted, so that is
// left to end with the process.
func NewSensor(r io.Reader, collision *indicator.CollisionFlag, logger *slog.Logger) *Sensor {
	s := &Sensor{
		samples: make(chan game.SensorSample),
		done:    make(chan struct{}),
	}
	go s.scan(r, collision, logger)
	return s
}

func (s *Sensor) scan(r io.Reader, collision *indicator.CollisionFlag, logger *slog.Logger) {
	defer close(s.samples)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line, err := ParseLine(scanner.Text())
		if err != nil {
			logger.Warn("ignoring input line", "error", err)
			continue
		}

		if line.Collision != nil {
			collision.Set(*line.Collision)
		}
		if line.Sample != nil {
			select {
			case s.samples <- *line.Sample:
			case <-s.done:
				return
			}
		}
	}

	s.err = scanner.Err()
}

// Close stops the reader goroutine once its current read returns. Read
// returns io.EOF after that.
func (s *Sensor) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// Read implements game.SensorSource. It returns io.EOF once the input is
// exhausted.
func (s *Sensor) Read(ctx context.Context) (game.SensorSample, error) {
	select {
	case <-ctx.Done():
		return game.SensorSample{}, ctx.Err()
	case sample, ok := <-s.samples:
		if !ok {
			if s.err != nil {
				return game.SensorSample{}, s.err
			}
			return game.SensorSample{}, io.EOF
		}
		return sample, nil
	}
}
