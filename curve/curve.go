// Package curve turns normalized axis deflection into whole pointer units.
//
// A response curve yields a distance-per-unit for each sample: how much raw,
// sensitivity-scaled distance corresponds to one emitted unit. Smaller values
// move the pointer faster for the same deflection. An Engine accumulates the
// raw distance and carries the sub-unit fraction between samples.
package curve

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid curve config")

// Mode selects the response curve.
type Mode string

const (
	ModeConstant Mode = "constant"
	ModeLinear   Mode = "linear"
	ModeLogistic Mode = "logistic"
)

// ParseMode resolves a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeConstant, ModeLinear, ModeLogistic:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config describes one axis response curve. Only the fields of the selected
// mode are consulted.
type Config struct {
	Mode Mode `json:"mode" yaml:"mode" toml:"mode"`

	// Samples with |s| below Deadzone produce nothing.
	Deadzone float64 `json:"deadzone" yaml:"deadzone" toml:"deadzone"`
	// Sensitivity converts a normalized sample into raw distance (dots per unit deflection).
	Sensitivity float64 `json:"sensitivity" yaml:"sensitivity" toml:"sensitivity"`

	// Constant mode.
	Distance float64 `json:"distance,omitempty" yaml:"distance,omitempty" toml:"distance,omitempty"`

	// Linear mode: (1-|s|)*Slope + Bias*sign(Slope).
	Slope float64 `json:"slope,omitempty" yaml:"slope,omitempty" toml:"slope,omitempty"`
	Bias  float64 `json:"bias,omitempty" yaml:"bias,omitempty" toml:"bias,omitempty"`

	// Logistic mode.
	Steepness      float64 `json:"steepness,omitempty" yaml:"steepness,omitempty" toml:"steepness,omitempty"`
	Midpoint       float64 `json:"midpoint,omitempty" yaml:"midpoint,omitempty" toml:"midpoint,omitempty"`
	Floor          float64 `json:"floor,omitempty" yaml:"floor,omitempty" toml:"floor,omitempty"`
	Scale          float64 `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
	Shift          float64 `json:"shift,omitempty" yaml:"shift,omitempty" toml:"shift,omitempty"`
	Target         float64 `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	MinCoefficient float64 `json:"minCoefficient,omitempty" yaml:"minCoefficient,omitempty" toml:"minCoefficient,omitempty"`
}

// Validate checks that the selected mode has usable parameters.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if math.IsNaN(c.Deadzone) || c.Deadzone < 0 {
		return fmt.Errorf("%w: deadzone must be >= 0, got %v", ErrInvalidConfig, c.Deadzone)
	}
	params := map[string]float64{"sensitivity": c.Sensitivity}
	switch c.Mode {
	case ModeConstant:
		params["distance"] = c.Distance
	case ModeLinear:
		params["slope"] = c.Slope
		params["bias"] = c.Bias
	case ModeLogistic:
		params["steepness"] = c.Steepness
		params["midpoint"] = c.Midpoint
		params["floor"] = c.Floor
		params["scale"] = c.Scale
		params["shift"] = c.Shift
		params["target"] = c.Target
		params["minCoefficient"] = c.MinCoefficient
		if c.MinCoefficient <= 0 {
			return fmt.Errorf("%w: minCoefficient must be > 0, got %v", ErrInvalidConfig, c.MinCoefficient)
		}
	}
	for name, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, name)
		}
	}
	return nil
}

// DistancePerUnit evaluates the response curve for one sample.
func (c Config) DistancePerUnit(sample float64) float64 {
	mag := math.Abs(sample)
	switch c.Mode {
	case ModeConstant:
		return c.Distance
	case ModeLinear:
		return (1-mag)*c.Slope + c.Bias*sign(c.Slope)
	case ModeLogistic:
		return c.Target / math.Max(c.coefficient(mag), c.MinCoefficient)
	default:
		return 0
	}
}

// coefficient is the sigmoid shape clamped to [0, 1].
func (c Config) coefficient(mag float64) float64 {
	v := c.Scale/(1+math.Exp(-c.Steepness*(mag-c.Midpoint))) + c.Shift
	v = math.Max(v, c.Floor)
	return math.Min(math.Max(v, 0), 1)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
