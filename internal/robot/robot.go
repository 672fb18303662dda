// Package robot talks to the robot's firmware over the devserial protocol and
// exposes it as the game's sensor, indicator, motor and light collaborators.
package robot

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"libdb.so/simonglow/devserial"
	"libdb.so/simonglow/internal/game"
	"libdb.so/simonglow/internal/indicator"
	"libdb.so/simonglow/internal/led"
)

// DefaultSampleTimeout is how long Read waits for the robot to answer a
// sample request.
const DefaultSampleTimeout = 500 * time.Millisecond

// ErrPanicked is returned by ReadLoop when the firmware reports that it
// cannot recover.
var ErrPanicked = errors.New("robot panicked")

// Link is a connection to the robot.
type Link struct {
	rw        io.ReadWriter
	logger    *slog.Logger
	collision *indicator.CollisionFlag
	lights    *indicator.Mailbox

	// SampleTimeout bounds Read. A request that times out yields an empty
	// sample, which classifies as unknown.
	SampleTimeout time.Duration

	writeMu sync.Mutex
	samples chan game.SensorSample
}

var (
	_ game.SensorSource      = (*Link)(nil)
	_ game.IndicatorOutput   = (*Link)(nil)
	_ game.ActuatorOutput    = (*Link)(nil)
	_ indicator.LightsOutput = (*Link)(nil)
)

// NewLink creates a link over rw. Collision reports from the robot are stored
// in collision.
func NewLink(rw io.ReadWriter, collision *indicator.CollisionFlag, logger *slog.Logger) *Link {
	return &Link{
		rw:            rw,
		logger:        logger,
		collision:     collision,
		lights:        indicator.NewMailbox(),
		SampleTimeout: DefaultSampleTimeout,
		samples:       make(chan game.SensorSample, 1),
	}
}

// Initialize resets the robot.
func (l *Link) Initialize() error {
	return l.write(devserial.InitializePacket{})
}

// Read implements game.SensorSource.
func (l *Link) Read(ctx context.Context) (game.SensorSample, error) {
	// Drop a sample that arrived after an earlier request timed out.
	select {
	case <-l.samples:
	default:
	}

	if err := l.write(devserial.SampleRequestPacket{}); err != nil {
		return game.SensorSample{}, err
	}

	timer := time.NewTimer(l.SampleTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return game.SensorSample{}, ctx.Err()
	case s := <-l.samples:
		return s, nil
	case <-timer.C:
		l.logger.Warn(
			"robot did not answer sample request",
			"timeout", l.SampleTimeout)
		return game.SensorSample{}, nil
	}
}

// SetColor implements game.IndicatorOutput.
func (l *Link) SetColor(c led.RGBColor) {
	l.writeOrWarn(devserial.IndicatorPacket{R: c.R(), G: c.G(), B: c.B()})
}

// Drive implements game.ActuatorOutput.
func (l *Link) Drive(dir game.Direction, leftSpeed, rightSpeed uint16) {
	l.writeOrWarn(devserial.DrivePacket{
		Direction: uint8(dir),
		Left:      leftSpeed,
		Right:     rightSpeed,
	})
}

// SetLights implements indicator.LightsOutput. The lights are written by
// FlushLights, so this never blocks.
func (l *Link) SetLights(lights indicator.Lights) {
	l.lights.SetLights(lights)
}

// FlushLights writes light changes to the robot until ctx is canceled.
func (l *Link) FlushLights(ctx context.Context) error {
	return l.lights.Run(ctx, func(lights indicator.Lights) error {
		l.writeOrWarn(devserial.LightsPacket{Bits: uint8(lights)})
		return nil
	})
}

// ReadLoop reads packets from the robot until ctx is canceled, the
// connection fails or the robot panics.
func (l *Link) ReadLoop(ctx context.Context) error {
	for ctx.Err() == nil {
		p, err := devserial.ReadOutgoingPacket(l.rw)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			// A short read indicates a timeout. This is expected.
			if errors.Is(err, io.EOF) {
				continue
			}
			if errors.Is(err, devserial.ErrChecksumMismatch) {
				l.logger.Warn("dropping corrupted packet from robot")
				continue
			}
			// Line noise. Resynchronize on the next byte.
			if errors.Is(err, devserial.ErrUnknownPacketType) {
				l.logger.Warn(
					"dropping unknown byte from robot",
					"error", err)
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		if err := l.handlePacket(p); err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (l *Link) handlePacket(p devserial.OutgoingPacket) error {
	switch p := p.(type) {
	case devserial.SamplePacket:
		select {
		case l.samples <- game.SensorSample{Red: p.Red, Green: p.Green, Blue: p.Blue}:
		default:
			l.logger.Debug("dropping unrequested sample")
		}

	case devserial.CollisionPacket:
		l.logger.Debug(
			"collision state changed",
			"asserted", p.Asserted)
		l.collision.Set(p.Asserted)

	case devserial.AckPacket:
		l.logger.Debug(
			"received ack packet from robot",
			"acked_for", p.IncomingPacketType)

	case devserial.LogPacket:
		l.logger.Info(
			"received log packet from robot",
			"message", p.Message)

	case devserial.ErrorPacket:
		l.logger.Warn(
			"received error packet from robot",
			"message", p.Message)

	case devserial.PanicPacket:
		l.logger.Error("robot unrecoverably panicked")
		return ErrPanicked

	default:
		return errors.Errorf("received unknown packet from robot: %s", p.Type())
	}

	return nil
}

func (l *Link) writeOrWarn(p devserial.IncomingPacket) {
	if err := l.write(p); err != nil {
		l.logger.Warn(
			"failed to write packet",
			"packet", p.Type(),
			"error", err)
	}
}

func (l *Link) write(p devserial.IncomingPacket) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if err := devserial.WriteIncomingPacket(l.rw, p); err != nil {
		return errors.Wrapf(err, "failed to write %s packet", p.Type())
	}
	return nil
}
