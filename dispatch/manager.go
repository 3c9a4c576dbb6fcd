// Package dispatch diffs successive joystick states and forwards the resulting
// key and pointer events to an Injector.
package dispatch

import (
	"fmt"
	"math"

	"github.com/attack3/joymap/curve"
	"github.com/attack3/joymap/input"
)

// axisDispatch is a resolved axis binding. The engine is only set in mouse mode.
type axisDispatch struct {
	axis    input.Axis
	binding AxisBinding
	engine  *curve.Engine
	// held is the key pressed when the axis left its deadzone, KeyNone otherwise.
	held input.Key
}

// Manager holds the previous state and turns state changes into events.
//
// A Manager starts uninitialized: the first Step records the state and emits
// nothing. Every later Step diffs against the stored state, emits, and replaces
// it. It is owned by a single polling loop and is not safe for concurrent use.
type Manager struct {
	inj     Injector
	buttons [input.ButtonCount]input.Key
	axes    []axisDispatch

	prev     input.State
	tracking bool
}

// New resolves the bindings once. Every configuration problem surfaces here;
// Step itself cannot fail.
func New(b Bindings, inj Injector) (*Manager, error) {
	m := &Manager{inj: inj, buttons: b.Buttons}
	for i, k := range b.Buttons {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: button %d has an unknown key", ErrUnresolvedBinding, i+1)
		}
	}

	for _, a := range []struct {
		axis    input.Axis
		binding AxisBinding
	}{
		{input.AxisX, b.X},
		{input.AxisY, b.Y},
		{input.AxisZ, b.Z},
	} {
		if err := a.binding.validate(a.axis); err != nil {
			return nil, err
		}
		d := axisDispatch{axis: a.axis, binding: a.binding}
		switch a.binding.Mode {
		case AxisKeys:
		case AxisMouse:
			e, err := curve.New(a.binding.Curve)
			if err != nil {
				return nil, err
			}
			d.engine = e
		default:
			continue
		}
		m.axes = append(m.axes, d)
	}
	return m, nil
}

// Tracking reports whether a previous state is held.
func (m *Manager) Tracking() bool { return m.tracking }

// Step consumes the next state.
func (m *Manager) Step(next input.State) {
	if !m.tracking {
		m.prev = next
		m.tracking = true
		return
	}

	for i, key := range m.buttons {
		if key == input.KeyNone {
			continue
		}
		was, is := m.prev.Buttons[i], next.Buttons[i]
		switch {
		case !was && is:
			m.inj.KeyDown(key)
		case was && !is:
			m.inj.KeyUp(key)
		}
	}

	for i := range m.axes {
		d := &m.axes[i]
		v := next.Axis(d.axis)
		switch d.binding.Mode {
		case AxisKeys:
			m.stepKeys(d, m.prev.Axis(d.axis), v)
		case AxisMouse:
			m.stepMouse(d, v)
		}
	}

	m.prev = next
}

// stepKeys applies deadzone hysteresis. Both entering and leaving pick the
// key from the sign of the new value; a value equal to the threshold counts
// as inside.
func (m *Manager) stepKeys(d *axisDispatch, prev, next float64) {
	b := d.binding
	wasOutside := math.Abs(prev) > b.Deadzone
	isOutside := math.Abs(next) > b.Deadzone
	key := b.Negative
	if next >= 0 {
		key = b.Positive
	}
	switch {
	case wasOutside && !isOutside:
		m.inj.KeyUp(key)
		d.held = input.KeyNone
	case !wasOutside && isOutside:
		m.inj.KeyDown(key)
		d.held = key
	}
}

func (m *Manager) stepMouse(d *axisDispatch, v float64) {
	delta := d.engine.Step(v)
	if delta == 0 {
		return
	}
	switch d.axis {
	case input.AxisX:
		m.inj.MoveX(delta)
	case input.AxisY:
		m.inj.MoveY(delta)
	}
}

// Release lifts every key the manager pressed and has not released, and returns the manager
// to its uninitialized state. Call it before shutting down the injector.
func (m *Manager) Release() {
	if !m.tracking {
		return
	}
	for i, key := range m.buttons {
		if key != input.KeyNone && m.prev.Buttons[i] {
			m.inj.KeyUp(key)
		}
	}
	for i := range m.axes {
		d := &m.axes[i]
		if d.held != input.KeyNone {
			m.inj.KeyUp(d.held)
			d.held = input.KeyNone
		}
	}
	m.prev = input.State{}
	m.tracking = false
}
