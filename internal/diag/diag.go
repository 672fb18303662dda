// Package diag contains game.DiagnosticSink implementations.
package diag

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
	"libdb.so/simonglow/internal/game"
)

// Logger emits diagnostics as debug log records.
type Logger struct {
	logger *slog.Logger
}

var _ game.DiagnosticSink = (*Logger)(nil)

// NewLogger creates a sink logging to logger.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) SampleRead(s game.SensorSample) {
	// Samples arrive every loop iteration; skip formatting when nobody
	// listens.
	if !l.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.logger.Debug("sensor sample", "red", s.Red, "green", s.Green, "blue", s.Blue)
}

func (l *Logger) ColorDetected(c game.Color) {
	l.logger.Debug("color detected", "color", c)
}

func (l *Logger) VerdictReached(v game.Verdict) {
	l.logger.Info("verdict", "verdict", v)
}

var (
	sampleColor  = color.New(color.FgHiBlack)
	stepColor    = color.New(color.FgWhite, color.Bold)
	successColor = color.New(color.FgCyan, color.Bold)
	failureColor = color.New(color.FgMagenta, color.Bold)
)

var detectedColors = map[game.Color]*color.Color{
	game.Green:  color.New(color.FgGreen),
	game.Red:    color.New(color.FgRed),
	game.Yellow: color.New(color.FgYellow),
}

// Console prints diagnostics as text lines, colored when the writer is a
// terminal.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	samples bool
}

var _ game.DiagnosticSink = (*Console)(nil)

// NewConsole creates a console sink writing to w. Raw samples are only
// printed if samples is true.
func NewConsole(w io.Writer, samples bool) *Console {
	return &Console{w: w, samples: samples}
}

func (c *Console) SampleRead(s game.SensorSample) {
	if c.samples {
		c.println(sampleColor, s.String())
	}
}

func (c *Console) ColorDetected(col game.Color) {
	printer, ok := detectedColors[col]
	if !ok {
		return
	}
	c.println(printer, strings.ToUpper(col.String()))
}

func (c *Console) VerdictReached(v game.Verdict) {
	switch v {
	case game.StepCorrect:
		c.println(stepColor, "Correct step!")
	case game.FullSuccess:
		c.println(successColor, "ACCESS GRANTED!")
	case game.FullFailure:
		c.println(failureColor, "Wrong! Restarting...")
	}
}

func (c *Console) println(printer *color.Color, s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	printer.Fprintln(c.w, s)
}

// Multi fans diagnostics out to several sinks.
type Multi []game.DiagnosticSink

var _ game.DiagnosticSink = Multi(nil)

func (m Multi) SampleRead(s game.SensorSample) {
	for _, sink := range m {
		sink.SampleRead(s)
	}
}

func (m Multi) ColorDetected(c game.Color) {
	for _, sink := range m {
		sink.ColorDetected(c)
	}
}

func (m Multi) VerdictReached(v game.Verdict) {
	for _, sink := range m {
		sink.VerdictReached(v)
	}
}
