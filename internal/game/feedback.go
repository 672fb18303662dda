package game

import (
	"context"
	"time"

	"libdb.so/simonglow/internal/clock"
	"libdb.so/simonglow/internal/led"
)

// FeedbackSequencer plays the robot's reaction to a verdict. After a full
// success it arms and shows a new pattern; after a full failure it shows the
// same pattern again so the player can retry it.
type FeedbackSequencer struct {
	indicator IndicatorOutput
	actuator  ActuatorOutput
	clock     clock.Clock
	timing    Timing

	generator *PatternGenerator
	matcher   *SequenceMatcher
	sequencer *PatternSequencer
}

// NewFeedbackSequencer creates a feedback sequencer. The matcher is re-armed
// with patterns from generator and patterns are replayed through sequencer.
func NewFeedbackSequencer(
	indicator IndicatorOutput, actuator ActuatorOutput, clk clock.Clock, timing Timing,
	generator *PatternGenerator, matcher *SequenceMatcher, sequencer *PatternSequencer) *FeedbackSequencer {

	return &FeedbackSequencer{
		indicator: indicator,
		actuator:  actuator,
		clock:     clk,
		timing:    timing,
		generator: generator,
		matcher:   matcher,
		sequencer: sequencer,
	}
}

// OnVerdict plays the reaction to v. Ignored has no reaction.
func (f *FeedbackSequencer) OnVerdict(ctx context.Context, v Verdict) error {
	switch v {
	case StepCorrect:
		return f.flash(ctx, f.timing.StepColor, f.timing.StepPulse)
	case FullSuccess:
		return f.onSuccess(ctx)
	case FullFailure:
		return f.onFailure(ctx)
	default:
		return nil
	}
}

func (f *FeedbackSequencer) onSuccess(ctx context.Context) error {
	if err := f.flash(ctx, f.timing.SuccessColor, f.timing.SuccessGlow); err != nil {
		return err
	}

	speed := f.timing.SuccessSpeed
	if err := f.drive(ctx, Forward, speed, f.timing.SuccessDrive); err != nil {
		return err
	}
	if err := f.drive(ctx, Backward, speed, f.timing.SuccessDrive); err != nil {
		return err
	}
	f.actuator.Drive(Stop, 0, 0)

	p := f.generator.Generate()
	f.matcher.Arm(p)
	return f.sequencer.Play(ctx, p)
}

func (f *FeedbackSequencer) onFailure(ctx context.Context) error {
	if err := f.flash(ctx, f.timing.FailureColor, f.timing.FailureGlow); err != nil {
		return err
	}
	if err := f.clock.Sleep(ctx, f.timing.FailureSettle); err != nil {
		return err
	}

	speed := f.timing.FailureSpeed
	if err := f.drive(ctx, Left, speed, f.timing.FailureTurn); err != nil {
		return err
	}
	if err := f.drive(ctx, Right, speed, f.timing.FailureTurn); err != nil {
		return err
	}
	f.actuator.Drive(Stop, 0, 0)

	return f.sequencer.Play(ctx, f.matcher.Pattern())
}

func (f *FeedbackSequencer) flash(ctx context.Context, c led.RGBColor, d time.Duration) error {
	f.indicator.SetColor(c)
	if err := f.clock.Sleep(ctx, d); err != nil {
		return err
	}
	f.indicator.SetColor(led.Off)
	return nil
}

func (f *FeedbackSequencer) drive(ctx context.Context, dir Direction, speed uint16, d time.Duration) error {
	f.actuator.Drive(dir, speed, speed)
	if err := f.clock.Sleep(ctx, d); err != nil {
		// Never leave the motors running.
		f.actuator.Drive(Stop, 0, 0)
		return err
	}
	return nil
}
