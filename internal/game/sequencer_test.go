package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/simonglow/internal/clock"
)

func TestPatternSequencer_Play(t *testing.T) {
	t.Run("shows every color with a gap", func(t *testing.T) {
		clk := clock.NewFake()
		rec := newRecorder(clk)
		seq := NewPatternSequencer(rec, clk, ms(700), ms(300))

		require.NoError(t, seq.Play(context.Background(), testPattern))
		assert.Equal(t, []output{
			{ms(0), "led green"},
			{ms(700), "led off"},
			{ms(1000), "led red"},
			{ms(1700), "led off"},
			{ms(2000), "led yellow"},
			{ms(2700), "led off"},
			{ms(3000), "led green"},
			{ms(3700), "led off"},
		}, rec.outputs)
		assert.Equal(t, ms(4000), clk.Now())
	})

	t.Run("stops on cancel", func(t *testing.T) {
		clk := clock.NewFake()
		rec := newRecorder(clk)
		seq := NewPatternSequencer(rec, clk, ms(700), ms(300))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := seq.Play(ctx, testPattern)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, rec.outputs, 1)
	})
}
