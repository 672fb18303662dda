package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		sample SensorSample
		want   Color
	}{
		{"green", SensorSample{Red: 1000, Green: 9000, Blue: 1000}, Green},
		{"yellow", SensorSample{Red: 0x2800, Green: 0x2800, Blue: 0x1000}, Yellow},
		{"red", SensorSample{Red: 20000, Green: 1000, Blue: 1000}, Red},
		{"dark", SensorSample{}, Unknown},
		{"white", SensorSample{Red: 0x8000, Green: 0x8000, Blue: 0x8000}, Unknown},
		{"blue", SensorSample{Red: 1000, Green: 1000, Blue: 20000}, Unknown},

		// Green and yellow both match; green is checked first.
		{"green over yellow", SensorSample{Red: 0x2100, Green: 0x2100 + 3001, Blue: 0}, Green},
		// Yellow and red both match; yellow is checked first.
		{"yellow over red", SensorSample{Red: 0xF000, Green: 0x2100, Blue: 0}, Yellow},

		{"green margin is exclusive", SensorSample{Red: 0, Green: 3000, Blue: 0}, Unknown},
		{"green needs both margins", SensorSample{Red: 0, Green: 5000, Blue: 2500}, Unknown},
		{"yellow bounds are exclusive", SensorSample{Red: 0x2000, Green: 0x2001, Blue: 0}, Unknown},
		{"yellow blue bound is exclusive", SensorSample{Red: 0x4000, Green: 0x4000, Blue: 0x3000}, Unknown},
		{"red margin is exclusive", SensorSample{Red: 6000, Green: 0, Blue: 0}, Unknown},
		{"red just over margin", SensorSample{Red: 6001, Green: 0, Blue: 0}, Red},

		{"saturated red", SensorSample{Red: 0xFFFF}, Red},
		{"saturated green", SensorSample{Green: 0xFFFF}, Green},
		{"saturated", SensorSample{Red: 0xFFFF, Green: 0xFFFF, Blue: 0xFFFF}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sample))
		})
	}
}

func TestSensorSample_String(t *testing.T) {
	s := SensorSample{Red: 0x1a, Green: 0x2000, Blue: 0xffff}
	assert.Equal(t, "r=001a g=2000 b=ffff", s.String())
}
