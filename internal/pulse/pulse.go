// Package pulse decides when refocusing pulses fire and how far they rotate.
package pulse

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/spinecho/internal/dynamo"
)

const (
	DefaultFirstFrame = 150
	DefaultPeriod     = 300
	DefaultFlipAngle  = 90.0

	MinFlipAngle = 0.0
	MaxFlipAngle = 270.0
)

// Mode selects the angle of periodic pulses.
type Mode int

const (
	Fixed180 Mode = iota
	VariableFlipAngle
)

func (m Mode) String() string {
	switch m {
	case Fixed180:
		return "fixed"
	case VariableFlipAngle:
		return "vfa"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "180", "fixed180", "":
		return Fixed180, nil
	case "vfa", "variable", "variable_flip_angle":
		return VariableFlipAngle, nil
	}
	return 0, fmt.Errorf("%w: unknown pulse mode %q", dynamo.ErrInvalidArgument, s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config holds the user-controlled pulse settings.
type Config struct {
	Mode             Mode
	FlipAngleDegrees float64
}

func DefaultConfig() Config {
	return Config{Mode: Fixed180, FlipAngleDegrees: DefaultFlipAngle}
}

// ValidateFlipAngle rejects angles outside [MinFlipAngle, MaxFlipAngle].
func ValidateFlipAngle(deg float64) error {
	if math.IsNaN(deg) || deg < MinFlipAngle || deg > MaxFlipAngle {
		return fmt.Errorf("%w: flip angle %g outside [%g, %g]", dynamo.ErrConfiguration, deg, MinFlipAngle, MaxFlipAngle)
	}
	return nil
}

// ClampFlipAngle limits deg to the valid range.
func ClampFlipAngle(deg float64) float64 {
	return math.Max(MinFlipAngle, math.Min(MaxFlipAngle, deg))
}

func (c Config) Validate() error {
	if c.Mode != Fixed180 && c.Mode != VariableFlipAngle {
		return fmt.Errorf("%w: unknown pulse mode %d", dynamo.ErrInvalidArgument, int(c.Mode))
	}
	return ValidateFlipAngle(c.FlipAngleDegrees)
}

// SetFlipAngle stores deg, or leaves the config unchanged if deg is out of range.
func (c *Config) SetFlipAngle(deg float64) error {
	if err := ValidateFlipAngle(deg); err != nil {
		return err
	}
	c.FlipAngleDegrees = deg
	return nil
}

func (c *Config) Toggle() {
	if c.Mode == Fixed180 {
		c.Mode = VariableFlipAngle
	} else {
		c.Mode = Fixed180
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
