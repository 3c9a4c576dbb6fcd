//go:build linux

package uinput

import (
	"fmt"
	"log/slog"

	"github.com/attack3/joymap/input"
	"github.com/bendahl/uinput"
)

var keycodes = map[input.Key]int{
	input.KeyA: uinput.KeyA, input.KeyB: uinput.KeyB, input.KeyC: uinput.KeyC,
	input.KeyD: uinput.KeyD, input.KeyE: uinput.KeyE, input.KeyF: uinput.KeyF,
	input.KeyG: uinput.KeyG, input.KeyH: uinput.KeyH, input.KeyI: uinput.KeyI,
	input.KeyJ: uinput.KeyJ, input.KeyK: uinput.KeyK, input.KeyL: uinput.KeyL,
	input.KeyM: uinput.KeyM, input.KeyN: uinput.KeyN, input.KeyO: uinput.KeyO,
	input.KeyP: uinput.KeyP, input.KeyQ: uinput.KeyQ, input.KeyR: uinput.KeyR,
	input.KeyS: uinput.KeyS, input.KeyT: uinput.KeyT, input.KeyU: uinput.KeyU,
	input.KeyV: uinput.KeyV, input.KeyW: uinput.KeyW, input.KeyX: uinput.KeyX,
	input.KeyY: uinput.KeyY, input.KeyZ: uinput.KeyZ,

	input.KeyAlt:    uinput.KeyLeftalt,
	input.KeyShift:  uinput.KeyLeftshift,
	input.KeyCtrl:   uinput.KeyLeftctrl,
	input.KeyEnter:  uinput.KeyEnter,
	input.KeyEscape: uinput.KeyEsc,

	input.KeyLeft:  uinput.KeyLeft,
	input.KeyRight: uinput.KeyRight,
	input.KeyUp:    uinput.KeyUp,
	input.KeyDown:  uinput.KeyDown,

	input.KeyF1: uinput.KeyF1, input.KeyF2: uinput.KeyF2, input.KeyF3: uinput.KeyF3,
	input.KeyF4: uinput.KeyF4, input.KeyF5: uinput.KeyF5, input.KeyF6: uinput.KeyF6,
	input.KeyF7: uinput.KeyF7, input.KeyF8: uinput.KeyF8, input.KeyF9: uinput.KeyF9,

	input.Key0: uinput.Key0, input.Key1: uinput.Key1, input.Key2: uinput.Key2,
	input.Key3: uinput.Key3, input.Key4: uinput.Key4, input.Key5: uinput.Key5,
	input.Key6: uinput.Key6, input.Key7: uinput.Key7, input.Key8: uinput.Key8,
	input.Key9: uinput.Key9,
}

// Open creates the virtual keyboard and mouse. Writing to path usually needs
// root or membership in the input group.
func Open(path string, logger *slog.Logger) (*Injector, error) {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	kb, err := uinput.CreateKeyboard(path, []byte(DeviceName+" keyboard"))
	if err != nil {
		return nil, fmt.Errorf("create uinput keyboard: %w", err)
	}
	m, err := uinput.CreateMouse(path, []byte(DeviceName+" mouse"))
	if err != nil {
		kb.Close()
		return nil, fmt.Errorf("create uinput mouse: %w", err)
	}
	logger.Info("Created uinput devices", "path", path)
	return &Injector{kb: kb, mouse: m, logger: logger}, nil
}
