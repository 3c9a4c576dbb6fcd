// Package uinput injects input through virtual evdev devices created via
// /dev/uinput. It is available on Linux only.
package uinput

import (
	"errors"
	"log/slog"

	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/input"
)

// DefaultPath is the uinput control node.
const DefaultPath = "/dev/uinput"

// DeviceName prefixes the names of the virtual devices.
const DeviceName = "joymap"

type keyboard interface {
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

type mouse interface {
	MoveLeft(pixel int32) error
	MoveRight(pixel int32) error
	MoveUp(pixel int32) error
	MoveDown(pixel int32) error
	Close() error
}

// Injector drives a virtual keyboard and a virtual mouse.
type Injector struct {
	kb     keyboard
	mouse  mouse
	logger *slog.Logger
}

func (inj *Injector) KeyDown(k input.Key) {
	if code, ok := inj.code(k); ok {
		if err := inj.kb.KeyDown(code); err != nil {
			inj.logger.Warn("uinput key down failed", "key", k, "error", err)
		}
	}
}

func (inj *Injector) KeyUp(k input.Key) {
	if code, ok := inj.code(k); ok {
		if err := inj.kb.KeyUp(code); err != nil {
			inj.logger.Warn("uinput key up failed", "key", k, "error", err)
		}
	}
}

func (inj *Injector) code(k input.Key) (int, bool) {
	code, ok := keycodes[k]
	if !ok {
		inj.logger.Warn("Key has no evdev code", "key", k)
	}
	return code, ok
}

func (inj *Injector) MoveX(delta int) {
	var err error
	switch {
	case delta > 0:
		err = inj.mouse.MoveRight(int32(delta))
	case delta < 0:
		err = inj.mouse.MoveLeft(int32(-delta))
	}
	if err != nil {
		inj.logger.Warn("uinput move failed", "axis", "x", "error", err)
	}
}

// MoveY treats positive deltas as forward, which moves the pointer up.
func (inj *Injector) MoveY(delta int) {
	var err error
	switch {
	case delta > 0:
		err = inj.mouse.MoveUp(int32(delta))
	case delta < 0:
		err = inj.mouse.MoveDown(int32(-delta))
	}
	if err != nil {
		inj.logger.Warn("uinput move failed", "axis", "y", "error", err)
	}
}

func (inj *Injector) Close() error {
	var errs []error
	if inj.kb != nil {
		errs = append(errs, inj.kb.Close())
	}
	if inj.mouse != nil {
		errs = append(errs, inj.mouse.Close())
	}
	return errors.Join(errs...)
}

var _ dispatch.Injector = (*Injector)(nil)
