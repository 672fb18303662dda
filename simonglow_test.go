package simonglow

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/simonglow/internal/clock"
	"libdb.so/simonglow/internal/game"
)

func init() {
	color.NoColor = true
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newSimDaemon(t *testing.T, seed uint64, input string) (*Daemon, *syncBuffer) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Backend = SimBackend
	cfg.Seed = seed

	d, err := NewDaemon(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	out := &syncBuffer{}
	d.stdin = strings.NewReader(input)
	d.stdout = out
	d.clock = clock.NewFake()

	return d, out
}

func patternInput(p game.Pattern) string {
	var lines []string
	for _, c := range p {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}

func TestDaemon_Sim(t *testing.T) {
	t.Run("winning a round", func(t *testing.T) {
		const seed = 1234
		p := game.NewPatternGenerator(seed).Generate()

		d, out := newSimDaemon(t, seed, patternInput(p))
		require.NoError(t, d.Run(context.Background()))

		output := out.String()
		assert.Equal(t, 3, strings.Count(output, "Correct step!"))
		assert.Contains(t, output, "ACCESS GRANTED!")
		assert.Contains(t, output, "motors     forward 3000/3000")
		assert.Contains(t, output, "motors     backward 3000/3000")
		assert.NotContains(t, output, "Wrong!")
	})

	t.Run("losing a round", func(t *testing.T) {
		const seed = 99
		p := game.NewPatternGenerator(seed).Generate()

		var wrong game.Color
		for _, c := range game.PatternColors {
			if c != p[0] {
				wrong = c
				break
			}
		}

		d, out := newSimDaemon(t, seed, wrong.String()+"\n"+wrong.String()+"\n")
		require.NoError(t, d.Run(context.Background()))

		output := out.String()
		assert.Contains(t, output, "Wrong! Restarting...")
		assert.Contains(t, output, "motors     left 4500/4500")
		assert.Contains(t, output, "motors     right 4500/4500")
		assert.NotContains(t, output, "ACCESS GRANTED!")
	})

	t.Run("canceled", func(t *testing.T) {
		d, _ := newSimDaemon(t, 1, "")
		r, w := io.Pipe()
		defer w.Close()
		d.stdin = r

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := d.Run(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestNewDaemon_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "carrier-pigeon"

	_, err := NewDaemon(cfg, slog.Default())
	assert.Error(t, err)
}
