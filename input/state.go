// Package input defines the logical joystick vocabulary shared by the decoder,
// the dispatch manager and the injector backends.
package input

import (
	"fmt"
	"strings"
)

// ButtonCount is the number of logical button slots.
const ButtonCount = 11

// Axis identifies one of the tracked stick axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
}

// State is a normalized joystick snapshot.
//
// Axis values are conventionally within [-1, 1] but are not clamped: a raw
// sample on the far side of the calibration point can exceed that range.
// X is positive to the right, Y positive forward and Z positive up.
type State struct {
	Buttons [ButtonCount]bool
	X, Y, Z float64
}

// Axis returns the value of the given axis, or 0 for an unknown axis.
func (s State) Axis(a Axis) float64 {
	switch a {
	case AxisX:
		return s.X
	case AxisY:
		return s.Y
	case AxisZ:
		return s.Z
	default:
		return 0
	}
}

// Pressed returns the 1-based numbers of the pressed buttons.
func (s State) Pressed() []int {
	var out []int
	for i, b := range s.Buttons {
		if b {
			out = append(out, i+1)
		}
	}
	return out
}

func (s State) String() string {
	var b strings.Builder
	b.WriteString("buttons=[")
	for i, n := range s.Pressed() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", n)
	}
	fmt.Fprintf(&b, "] x=%+.3f y=%+.3f z=%+.3f", s.X, s.Y, s.Z)
	return b.String()
}
