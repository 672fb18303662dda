// Package simonglow runs the color sequence game on a robot: it shows a
// random pattern of colors, reads colors the player holds up to the sensor,
// and reacts with lights and motor moves.
package simonglow

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/simonglow/internal/clock"
	"libdb.so/simonglow/internal/diag"
	"libdb.so/simonglow/internal/game"
	"libdb.so/simonglow/internal/indicator"
	"libdb.so/simonglow/internal/robot"
	"libdb.so/simonglow/internal/sim"
)

// errInputDone is returned by the simulated game loop once stdin is
// exhausted.
var errInputDone = errors.New("simulation input exhausted")

// Daemon is the main simonglow daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	clock  clock.Clock
}

// NewDaemon creates a new simonglow daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		clock:  clock.NewReal(),
	}, nil
}

// Run starts the daemon. It blocks until the given context is canceled, the
// robot connection fails or, for the simulation backend, stdin runs out.
func (d *Daemon) Run(ctx context.Context) error {
	switch d.cfg.Backend {
	case SimBackend:
		return d.runSim(ctx)
	default:
		return d.runSerial(ctx)
	}
}

// seed returns the configured seed, or one taken from the clock. It is only
// called once per run.
func (d *Daemon) seed() uint64 {
	if d.cfg.Seed != 0 {
		return d.cfg.Seed
	}
	seed := uint64(time.Now().UnixNano())
	d.logger.Debug("seeded pattern generator from the clock", "seed", seed)
	return seed
}

func (d *Daemon) newGame(sensor game.SensorSource, out game.IndicatorOutput, actuator game.ActuatorOutput) *game.Game {
	return game.New(game.Options{
		Sensor:    sensor,
		Indicator: out,
		Actuator:  actuator,
		Clock:     d.clock,
		Timing:    d.cfg.GameTiming(),
		Seed:      d.seed(),
		Diagnostics: diag.Multi{
			diag.NewLogger(d.logger),
			diag.NewConsole(d.stdout, d.cfg.ShowSamples),
		},
		Logger: d.logger,
	})
}

func (d *Daemon) newIndicator(out indicator.LightsOutput, collision *indicator.CollisionFlag) *indicator.PeriodicIndicator {
	return indicator.NewPeriodicIndicator(out, collision, d.cfg.Indicator.BlinkTicks)
}

func (d *Daemon) runSerial(ctx context.Context) error {
	port, err := serial.Open(d.cfg.Device, &serial.Mode{
		BaudRate: d.cfg.Baud,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		return errors.Wrap(err, "failed to reset read timeout")
	}

	collision := &indicator.CollisionFlag{}
	link := robot.NewLink(port, collision, d.logger)
	link.SampleTimeout = time.Duration(d.cfg.SampleTimeout)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		d.logger.Debug("closing serial port")
		if err := port.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})
	errg.Go(func() error {
		return link.ReadLoop(ctx)
	})

	errg.Go(func() error {
		return link.FlushLights(ctx)
	})
	errg.Go(func() error {
		return indicator.Run(ctx, d.newIndicator(link, collision), time.Duration(d.cfg.Indicator.Tick))
	})
	errg.Go(func() error {
		d.logger.Debug("sending initialize packet")
		if err := link.Initialize(); err != nil {
			return errors.Wrap(err, "failed to initialize robot")
		}
		return d.newGame(link, link, link).Run(ctx)
	})

	return errg.Wait()
}

func (d *Daemon) runSim(ctx context.Context) error {
	collision := &indicator.CollisionFlag{}
	sensor := sim.NewSensor(d.stdin, collision, d.logger)
	defer sensor.Close()
	output := sim.NewOutput(d.stdout)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return output.PrintLights(ctx)
	})
	errg.Go(func() error {
		return indicator.Run(ctx, d.newIndicator(output, collision), time.Duration(d.cfg.Indicator.Tick))
	})
	errg.Go(func() error {
		err := d.newGame(sensor, output, output).Run(ctx)
		if errors.Is(err, io.EOF) {
			return errInputDone
		}
		return err
	})

	if err := errg.Wait(); !errors.Is(err, errInputDone) {
		return err
	}
	return nil
}
