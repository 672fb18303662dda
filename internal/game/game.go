package game

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"libdb.so/simonglow/internal/clock"
)

// Options configures a Game.
type Options struct {
	Sensor    SensorSource
	Indicator IndicatorOutput
	Actuator  ActuatorOutput
	Clock     clock.Clock
	Timing    Timing
	// Seed seeds the pattern generator.
	Seed uint64
	// Diagnostics is optional.
	Diagnostics DiagnosticSink
	// Logger is optional.
	Logger *slog.Logger
}

// Game is the main control loop. It owns the pattern and the matcher state
// and is meant to be driven from a single goroutine.
type Game struct {
	sensor    SensorSource
	indicator IndicatorOutput
	clock     clock.Clock
	timing    Timing
	diag      DiagnosticSink
	logger    *slog.Logger

	generator *PatternGenerator
	matcher   *SequenceMatcher
	sequencer *PatternSequencer
	feedback  *FeedbackSequencer
}

// New creates a new game. The first pattern is generated by Start.
func New(opts Options) *Game {
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = nopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &Game{
		sensor:    opts.Sensor,
		indicator: opts.Indicator,
		clock:     opts.Clock,
		timing:    opts.Timing,
		diag:      opts.Diagnostics,
		logger:    opts.Logger,
		generator: NewPatternGenerator(opts.Seed),
		matcher:   NewSequenceMatcher(Pattern{}),
	}
	g.sequencer = NewPatternSequencer(opts.Indicator, opts.Clock, opts.Timing.ShowOn, opts.Timing.ShowOff)
	g.feedback = NewFeedbackSequencer(
		opts.Indicator, opts.Actuator, opts.Clock, opts.Timing,
		g.generator, g.matcher, g.sequencer)

	return g
}

// Pattern returns the pattern the player currently has to reproduce.
func (g *Game) Pattern() Pattern { return g.matcher.Pattern() }

// State returns the matcher's progress.
func (g *Game) State() MatcherState { return g.matcher.State() }

// Start arms the game with a fresh pattern and shows it.
func (g *Game) Start(ctx context.Context) error {
	p := g.generator.Generate()
	g.matcher.Arm(p)

	g.logger.Debug("new pattern", "pattern", p)
	return g.sequencer.Play(ctx, p)
}

// Run starts the game and plays it until ctx is canceled or the sensor fails.
func (g *Game) Run(ctx context.Context) error {
	if err := g.Start(ctx); err != nil {
		return err
	}

	for {
		if _, err := g.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one iteration of the main loop: read the sensor, classify and
// hold the color, judge it and play the feedback.
func (g *Game) Step(ctx context.Context) (Verdict, error) {
	sample, err := g.sensor.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Ignored, ctx.Err()
		}
		return Ignored, errors.Wrap(err, "failed to read sensor")
	}
	g.diag.SampleRead(sample)

	if err := g.clock.Sleep(ctx, g.timing.SampleInterval); err != nil {
		return Ignored, err
	}

	detected, err := g.HoldColor(ctx, sample)
	if err != nil {
		return Ignored, err
	}

	verdict := g.matcher.Evaluate(detected)
	if detected != Unknown {
		state := g.matcher.State()
		g.logger.Debug(
			"evaluated color",
			"color", detected,
			"verdict", verdict,
			"index", state.CurrentIndex,
			"failures", state.ConsecutiveFailures)
	}
	if verdict != Ignored {
		g.diag.VerdictReached(verdict)
	}

	if err := g.feedback.OnVerdict(ctx, verdict); err != nil {
		return verdict, err
	}
	if verdict == FullSuccess {
		g.logger.Debug("new pattern", "pattern", g.matcher.Pattern())
	}
	return verdict, nil
}

// HoldColor classifies sample and shows the result on the indicator. A
// recognized color is held for the configured hold time before it is
// returned, so the player has to present it steadily; Unknown returns at once.
func (g *Game) HoldColor(ctx context.Context, sample SensorSample) (Color, error) {
	c := Classify(sample)
	g.indicator.SetColor(c.LED())

	if c == Unknown {
		return Unknown, nil
	}
	g.diag.ColorDetected(c)

	if err := g.clock.Sleep(ctx, g.timing.Hold); err != nil {
		return Unknown, err
	}
	return c, nil
}
