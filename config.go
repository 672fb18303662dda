package simonglow

import (
	"encoding"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"libdb.so/simonglow/internal/game"
	"libdb.so/simonglow/internal/indicator"
	"libdb.so/simonglow/internal/led"
	"libdb.so/simonglow/internal/robot"
)

// Config is the configuration for the simonglow daemon.
type Config struct {
	// Backend selects how the robot is reached.
	Backend Backend `toml:"backend" yaml:"backend"`
	// Device is the path to the robot's serial device.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device" yaml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud" yaml:"baud"`
	// Seed seeds the pattern generator. Zero seeds it from the clock.
	Seed uint64 `toml:"seed" yaml:"seed"`
	// SampleInterval is the pause after every sensor read.
	SampleInterval TOMLDuration `toml:"sample_interval" yaml:"sample_interval"`
	// SampleTimeout is how long to wait for the robot to answer a sample
	// request.
	SampleTimeout TOMLDuration `toml:"sample_timeout" yaml:"sample_timeout"`
	// ShowSamples prints every raw sensor sample to the console.
	ShowSamples bool `toml:"show_samples" yaml:"show_samples"`

	Timing    TimingConfig    `toml:"timing" yaml:"timing"`
	Colors    ColorsConfig    `toml:"colors" yaml:"colors"`
	Indicator IndicatorConfig `toml:"indicator" yaml:"indicator"`
}

// Backend is the kind of robot connection.
type Backend string

const (
	// SerialBackend talks to the robot's firmware over a serial port.
	SerialBackend Backend = "serial"
	// SimBackend simulates the robot on the console, reading sensor input
	// from stdin.
	SimBackend Backend = "sim"
)

// TimingConfig holds the game's durations and motor speeds.
type TimingConfig struct {
	Hold          TOMLDuration `toml:"hold" yaml:"hold"`
	ShowOn        TOMLDuration `toml:"show_on" yaml:"show_on"`
	ShowOff       TOMLDuration `toml:"show_off" yaml:"show_off"`
	StepPulse     TOMLDuration `toml:"step_pulse" yaml:"step_pulse"`
	SuccessGlow   TOMLDuration `toml:"success_glow" yaml:"success_glow"`
	SuccessDrive  TOMLDuration `toml:"success_drive" yaml:"success_drive"`
	SuccessSpeed  uint16       `toml:"success_speed" yaml:"success_speed"`
	FailureGlow   TOMLDuration `toml:"failure_glow" yaml:"failure_glow"`
	FailureSettle TOMLDuration `toml:"failure_settle" yaml:"failure_settle"`
	FailureTurn   TOMLDuration `toml:"failure_turn" yaml:"failure_turn"`
	FailureSpeed  uint16       `toml:"failure_speed" yaml:"failure_speed"`
}

// ColorsConfig holds the feedback colors. Each is a palette name such as
// "pink" or a "#rrggbb" hex string. Off is not a usable feedback color and
// falls back to the default.
type ColorsConfig struct {
	Step    led.RGBColor `toml:"step" yaml:"step"`
	Success led.RGBColor `toml:"success" yaml:"success"`
	Failure led.RGBColor `toml:"failure" yaml:"failure"`
}

// IndicatorConfig configures the chassis status lights.
type IndicatorConfig struct {
	// Tick is the period of the light state machine.
	Tick TOMLDuration `toml:"tick" yaml:"tick"`
	// BlinkTicks is the number of ticks between two blink toggles.
	BlinkTicks uint32 `toml:"blink_ticks" yaml:"blink_ticks"`
}

// DefaultConfig returns the configuration used for anything a config file
// leaves out.
func DefaultConfig() *Config {
	t := game.DefaultTiming()
	return &Config{
		Backend:        SerialBackend,
		Device:         "/dev/ttyACM0",
		Baud:           115200,
		SampleInterval: TOMLDuration(t.SampleInterval),
		SampleTimeout:  TOMLDuration(robot.DefaultSampleTimeout),
		Timing: TimingConfig{
			Hold:          TOMLDuration(t.Hold),
			ShowOn:        TOMLDuration(t.ShowOn),
			ShowOff:       TOMLDuration(t.ShowOff),
			StepPulse:     TOMLDuration(t.StepPulse),
			SuccessGlow:   TOMLDuration(t.SuccessGlow),
			SuccessDrive:  TOMLDuration(t.SuccessDrive),
			SuccessSpeed:  t.SuccessSpeed,
			FailureGlow:   TOMLDuration(t.FailureGlow),
			FailureSettle: TOMLDuration(t.FailureSettle),
			FailureTurn:   TOMLDuration(t.FailureTurn),
			FailureSpeed:  t.FailureSpeed,
		},
		Colors: ColorsConfig{
			Step:    t.StepColor,
			Success: t.SuccessColor,
			Failure: t.FailureColor,
		},
		Indicator: IndicatorConfig{
			Tick:       TOMLDuration(indicator.DefaultTickInterval),
			BlinkTicks: indicator.DefaultBlinkTicks,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case SerialBackend:
		if c.Device == "" {
			return errors.New("no serial device configured")
		}
		if c.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", c.Baud)
		}
	case SimBackend:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	durations := []struct {
		name string
		d    TOMLDuration
	}{
		{"sample_interval", c.SampleInterval},
		{"sample_timeout", c.SampleTimeout},
		{"timing.hold", c.Timing.Hold},
		{"timing.show_on", c.Timing.ShowOn},
		{"timing.show_off", c.Timing.ShowOff},
		{"timing.step_pulse", c.Timing.StepPulse},
		{"timing.success_glow", c.Timing.SuccessGlow},
		{"timing.success_drive", c.Timing.SuccessDrive},
		{"timing.failure_glow", c.Timing.FailureGlow},
		{"timing.failure_settle", c.Timing.FailureSettle},
		{"timing.failure_turn", c.Timing.FailureTurn},
		{"indicator.tick", c.Indicator.Tick},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, time.Duration(d.d))
		}
	}

	if c.Indicator.BlinkTicks == 0 {
		return errors.New("indicator.blink_ticks must be positive")
	}

	return nil
}

// GameTiming returns the timing the game runs with.
func (c *Config) GameTiming() game.Timing {
	return game.Timing{
		SampleInterval: time.Duration(c.SampleInterval),
		Hold:           time.Duration(c.Timing.Hold),
		ShowOn:         time.Duration(c.Timing.ShowOn),
		ShowOff:        time.Duration(c.Timing.ShowOff),
		StepPulse:      time.Duration(c.Timing.StepPulse),
		SuccessGlow:    time.Duration(c.Timing.SuccessGlow),
		SuccessDrive:   time.Duration(c.Timing.SuccessDrive),
		SuccessSpeed:   c.Timing.SuccessSpeed,
		FailureGlow:    time.Duration(c.Timing.FailureGlow),
		FailureSettle:  time.Duration(c.Timing.FailureSettle),
		FailureTurn:    time.Duration(c.Timing.FailureTurn),
		FailureSpeed:   c.Timing.FailureSpeed,
		StepColor:      c.Colors.Step,
		SuccessColor:   c.Colors.Success,
		FailureColor:   c.Colors.Failure,
	}
}

// fillDefaults replaces every zero field with its default. Seed and
// ShowSamples are left alone since their zero values are meaningful.
func (c *Config) fillDefaults() {
	def := DefaultConfig()

	setDuration := func(v *TOMLDuration, d TOMLDuration) {
		if *v == 0 {
			*v = d
		}
	}

	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Device == "" {
		c.Device = def.Device
	}
	if c.Baud == 0 {
		c.Baud = def.Baud
	}
	setDuration(&c.SampleInterval, def.SampleInterval)
	setDuration(&c.SampleTimeout, def.SampleTimeout)

	setDuration(&c.Timing.Hold, def.Timing.Hold)
	setDuration(&c.Timing.ShowOn, def.Timing.ShowOn)
	setDuration(&c.Timing.ShowOff, def.Timing.ShowOff)
	setDuration(&c.Timing.StepPulse, def.Timing.StepPulse)
	setDuration(&c.Timing.SuccessGlow, def.Timing.SuccessGlow)
	setDuration(&c.Timing.SuccessDrive, def.Timing.SuccessDrive)
	setDuration(&c.Timing.FailureGlow, def.Timing.FailureGlow)
	setDuration(&c.Timing.FailureSettle, def.Timing.FailureSettle)
	setDuration(&c.Timing.FailureTurn, def.Timing.FailureTurn)
	if c.Timing.SuccessSpeed == 0 {
		c.Timing.SuccessSpeed = def.Timing.SuccessSpeed
	}
	if c.Timing.FailureSpeed == 0 {
		c.Timing.FailureSpeed = def.Timing.FailureSpeed
	}

	setColor := func(v *led.RGBColor, d led.RGBColor) {
		if v.IsOff() {
			*v = d
		}
	}
	setColor(&c.Colors.Step, def.Colors.Step)
	setColor(&c.Colors.Success, def.Colors.Success)
	setColor(&c.Colors.Failure, def.Colors.Failure)

	setDuration(&c.Indicator.Tick, def.Indicator.Tick)
	if c.Indicator.BlinkTicks == 0 {
		c.Indicator.BlinkTicks = def.Indicator.BlinkTicks
	}
}

// TOMLDuration is a duration that can be parsed from TOML or YAML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Format is a configuration file format.
type Format string

const (
	TOMLFormat Format = "toml"
	YAMLFormat Format = "yaml"
)

// FormatFromPath guesses the format of a configuration file from its
// extension. Anything that is not .yaml or .yml is TOML.
func FormatFromPath(path string) Format {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return YAMLFormat
	default:
		return TOMLFormat
	}
}

// ParseConfig parses a TOML configuration from a reader.
func ParseConfig(r io.Reader) (*Config, error) {
	return ParseConfigFormat(r, TOMLFormat)
}

// ParseConfigFormat parses a configuration in the given format from a
// reader. Missing fields are filled with defaults.
func ParseConfigFormat(r io.Reader, format Format) (*Config, error) {
	var config Config

	switch format {
	case TOMLFormat:
		if err := toml.NewDecoder(r).Decode(&config); err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML")
		}
	case YAMLFormat:
		if err := yaml.NewDecoder(r).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "failed to decode YAML")
		}
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}

	config.fillDefaults()
	return &config, nil
}

// ReadConfig reads the configuration file at path.
func ReadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	return ParseConfigFormat(f, FormatFromPath(path))
}
