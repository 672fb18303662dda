package simonglow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/simonglow/internal/game"
	"libdb.so/simonglow/internal/led"
)

func TestParseConfig(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		cfg, err := ParseConfig(strings.NewReader(`
backend = "sim"
seed = 42

[timing]
hold = "250ms"
failure_speed = 4000

[indicator]
blink_ticks = 100
`))
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, SimBackend, cfg.Backend)
		assert.EqualValues(t, 42, cfg.Seed)
		assert.Equal(t, TOMLDuration(250*time.Millisecond), cfg.Timing.Hold)
		assert.EqualValues(t, 4000, cfg.Timing.FailureSpeed)
		assert.EqualValues(t, 100, cfg.Indicator.BlinkTicks)

		// Untouched fields keep their defaults.
		assert.Equal(t, TOMLDuration(700*time.Millisecond), cfg.Timing.ShowOn)
		assert.EqualValues(t, 3000, cfg.Timing.SuccessSpeed)
		assert.Equal(t, "/dev/ttyACM0", cfg.Device)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg, err := ParseConfigFormat(strings.NewReader(`
backend: serial
device: /dev/ttyUSB0
baud: 9600
sample_interval: 20ms
timing:
  show_on: 1s
`), YAMLFormat)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "/dev/ttyUSB0", cfg.Device)
		assert.Equal(t, 9600, cfg.Baud)
		assert.Equal(t, TOMLDuration(20*time.Millisecond), cfg.SampleInterval)
		assert.Equal(t, TOMLDuration(time.Second), cfg.Timing.ShowOn)
	})

	t.Run("empty yaml is all defaults", func(t *testing.T) {
		cfg, err := ParseConfigFormat(strings.NewReader(""), YAMLFormat)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("colors", func(t *testing.T) {
		cfg, err := ParseConfig(strings.NewReader(`
[colors]
success = "pink"
failure = "#0a96cc"
`))
		require.NoError(t, err)

		timing := cfg.GameTiming()
		assert.Equal(t, led.Pink, timing.SuccessColor)
		assert.Equal(t, led.RGBColor{0x0a, 0x96, 0xcc}, timing.FailureColor)
		assert.Equal(t, led.White, timing.StepColor)
	})

	t.Run("yaml colors", func(t *testing.T) {
		cfg, err := ParseConfigFormat(strings.NewReader(`
colors:
  step: blue
  failure: "#0a96cc"
`), YAMLFormat)
		require.NoError(t, err)

		assert.Equal(t, led.Blue, cfg.Colors.Step)
		assert.Equal(t, led.RGBColor{0x0a, 0x96, 0xcc}, cfg.Colors.Failure)
		assert.Equal(t, led.SkyBlue, cfg.Colors.Success)
	})

	t.Run("bad color", func(t *testing.T) {
		_, err := ParseConfig(strings.NewReader("[colors]\nstep = \"mauve\"\n"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := ParseConfig(strings.NewReader(`sample_interval = "soon"`))
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := ParseConfigFormat(strings.NewReader(""), Format("ini"))
		assert.Error(t, err)
	})
}

func TestReadConfig(t *testing.T) {
	t.Run("shipped config", func(t *testing.T) {
		cfg, err := ReadConfig("simonglow.toml")
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("yaml by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "robot.yml")
		require.NoError(t, os.WriteFile(path, []byte("backend: sim\n"), 0o600))

		cfg, err := ReadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, SimBackend, cfg.Backend)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "bluetooth" }},
		{"no device", func(c *Config) { c.Device = "" }},
		{"bad baud", func(c *Config) { c.Baud = -1 }},
		{"negative hold", func(c *Config) { c.Timing.Hold = -1 }},
		{"zero tick", func(c *Config) { c.Indicator.Tick = 0 }},
		{"zero blink", func(c *Config) { c.Indicator.BlinkTicks = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("sim needs no device", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Backend = SimBackend
		cfg.Device = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_GameTiming(t *testing.T) {
	assert.Equal(t, game.DefaultTiming(), DefaultConfig().GameTiming())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, YAMLFormat, FormatFromPath("a.yaml"))
	assert.Equal(t, YAMLFormat, FormatFromPath("dir/a.yml"))
	assert.Equal(t, TOMLFormat, FormatFromPath("a.toml"))
	assert.Equal(t, TOMLFormat, FormatFromPath("a"))
}
