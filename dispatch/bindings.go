package dispatch

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/attack3/joymap/curve"
	"github.com/attack3/joymap/input"
)

// ErrUnresolvedBinding is returned by New when a binding cannot be wired.
var ErrUnresolvedBinding = errors.New("unresolved binding")

// AxisMode selects how an axis is dispatched. It is fixed for a Manager's lifetime.
type AxisMode string

const (
	// AxisNone installs no handler for the axis.
	AxisNone AxisMode = "none"
	// AxisKeys presses one of two opposing keys while the axis is outside its deadzone.
	AxisKeys AxisMode = "keys"
	// AxisMouse drives relative pointer motion through a curve engine.
	AxisMouse AxisMode = "mouse"
)

func (m *AxisMode) UnmarshalText(text []byte) error {
	switch v := AxisMode(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case "", AxisNone:
		*m = AxisNone
	case AxisKeys, AxisMouse:
		*m = v
	default:
		return fmt.Errorf("%w: unknown axis mode %q", ErrUnresolvedBinding, string(text))
	}
	return nil
}

// AxisBinding is the dispatch configuration of one axis.
type AxisBinding struct {
	Mode AxisMode

	// Keys mode.
	Positive input.Key
	Negative input.Key
	Deadzone float64

	// Mouse mode.
	Curve curve.Config
}

// Bindings is the complete, resolved mapping consumed by New.
type Bindings struct {
	// Buttons maps slot i (button i+1) to a key; KeyNone leaves the slot unbound.
	Buttons [input.ButtonCount]input.Key
	X, Y, Z AxisBinding
}

func (b AxisBinding) validate(axis input.Axis) error {
	switch b.Mode {
	case "", AxisNone:
		return nil
	case AxisKeys:
		if axis == input.AxisZ {
			return fmt.Errorf("%w: %s axis cannot be dispatched", ErrUnresolvedBinding, axis)
		}
		if b.Positive == input.KeyNone || b.Negative == input.KeyNone {
			return fmt.Errorf("%w: %s axis needs both a positive and a negative key", ErrUnresolvedBinding, axis)
		}
		if !b.Positive.Valid() || !b.Negative.Valid() {
			return fmt.Errorf("%w: %s axis has an unknown key", ErrUnresolvedBinding, axis)
		}
		if b.Deadzone < 0 || math.IsNaN(b.Deadzone) {
			return fmt.Errorf("%w: %s axis deadzone must be >= 0", ErrUnresolvedBinding, axis)
		}
		return nil
	case AxisMouse:
		if axis == input.AxisZ {
			return fmt.Errorf("%w: continuous mapping of the %s axis is not supported", ErrUnresolvedBinding, axis)
		}
		if err := b.Curve.Validate(); err != nil {
			return fmt.Errorf("%w: %s axis: %w", ErrUnresolvedBinding, axis, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s axis has unknown mode %q", ErrUnresolvedBinding, axis, b.Mode)
	}
}
