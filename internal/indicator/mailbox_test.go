package indicator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox(t *testing.T) {
	t.Run("delivers changes", func(t *testing.T) {
		m := NewMailbox()
		got := make(chan Lights, 10)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- m.Run(ctx, func(l Lights) error {
				got <- l
				return nil
			})
		}()

		m.SetLights(Waiting)
		assert.Equal(t, Waiting, <-got)

		m.SetLights(Waiting)
		m.SetLights(Alert)
		assert.Equal(t, Alert, waitFor(t, got))

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("never blocks the sender", func(t *testing.T) {
		m := NewMailbox()
		for i := 0; i < 1000; i++ {
			m.SetLights(Lights(i % 3))
		}
		assert.Equal(t, Lights(999%3), Lights(m.lights.Load()))
	})

	t.Run("stops on output error", func(t *testing.T) {
		m := NewMailbox()
		m.SetLights(Alert)

		errBroken := errors.New("broken")
		err := m.Run(context.Background(), func(Lights) error { return errBroken })
		require.ErrorIs(t, err, errBroken)
	})
}

// waitFor returns the next value from ch, failing the test after a second.
func waitFor(t *testing.T, ch <-chan Lights) Lights {
	t.Helper()
	select {
	case l := <-ch:
		return l
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for lights")
		return 0
	}
}
