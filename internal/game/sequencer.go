package game

import (
	"context"
	"time"

	"libdb.so/simonglow/internal/clock"
	"libdb.so/simonglow/internal/led"
)

// PatternSequencer shows a pattern on the indicator, one color at a time.
type PatternSequencer struct {
	indicator IndicatorOutput
	clock     clock.Clock
	on, off   time.Duration
}

// NewPatternSequencer creates a sequencer that shows each color for on and
// then turns the indicator off for off.
func NewPatternSequencer(indicator IndicatorOutput, clk clock.Clock, on, off time.Duration) *PatternSequencer {
	return &PatternSequencer{
		indicator: indicator,
		clock:     clk,
		on:        on,
		off:       off,
	}
}

// Play shows every color of p in order. It blocks until the whole pattern has
// been shown or ctx is canceled.
func (s *PatternSequencer) Play(ctx context.Context, p Pattern) error {
	for _, c := range p {
		s.indicator.SetColor(c.LED())
		if err := s.clock.Sleep(ctx, s.on); err != nil {
			return err
		}

		s.indicator.SetColor(led.Off)
		if err := s.clock.Sleep(ctx, s.off); err != nil {
			return err
		}
	}
	return nil
}
