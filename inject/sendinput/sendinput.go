// Package sendinput injects keyboard and mouse input on Windows through the
// user32 SendInput call.
package sendinput

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/input"
)

// Mode selects how keys are identified to Windows.
type Mode string

const (
	// ModeNormal sends virtual-key codes. Most desktop applications accept it.
	ModeNormal Mode = "normal"
	// ModeDirectX sends hardware scan codes, which games reading DirectInput
	// or raw input need.
	ModeDirectX Mode = "directx"
)

func (m *Mode) UnmarshalText(text []byte) error {
	switch v := Mode(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case "", ModeNormal:
		*m = ModeNormal
	case ModeDirectX, "dx":
		*m = ModeDirectX
	default:
		return fmt.Errorf("unknown sendinput mode %q", string(text))
	}
	return nil
}

// sendFunc submits an encoded INPUT array of n records.
type sendFunc func(buf []byte, n int) error

// Injector translates dispatch calls into INPUT records.
type Injector struct {
	mode    Mode
	ptrSize int
	send    sendFunc
	logger  *slog.Logger

	// encoded down and up records per key, built once.
	keys map[input.Key][2][]byte
}

func newInjector(mode Mode, ptrSize int, send sendFunc, logger *slog.Logger) *Injector {
	inj := &Injector{mode: mode, ptrSize: ptrSize, send: send, logger: logger, keys: map[input.Key][2][]byte{}}
	for _, k := range input.Keys() {
		down, ok := inj.keyInput(k, false)
		if !ok {
			continue
		}
		up, _ := inj.keyInput(k, true)
		inj.keys[k] = [2][]byte{Encode([]Input{down}, ptrSize), Encode([]Input{up}, ptrSize)}
	}
	return inj
}

// keyInput builds the record for k, or false when the key has no code in
// the injector's mode.
func (inj *Injector) keyInput(k input.Key, up bool) (Input, bool) {
	var flags uint32
	if up {
		flags |= KeyEventKeyUp
	}
	if inj.mode == ModeDirectX {
		code, ok := scanCodes[k]
		if !ok {
			return Input{}, false
		}
		flags |= KeyEventScanCode
		if code >= 0x80 {
			code &= 0x7f
			flags |= KeyEventExtendedKey
		}
		return keyInput(0, code, flags), true
	}
	vk, ok := virtualKeys[k]
	if !ok {
		return Input{}, false
	}
	return keyInput(vk, 0, flags), true
}

func (inj *Injector) KeyDown(k input.Key) { inj.key(k, false) }
func (inj *Injector) KeyUp(k input.Key)   { inj.key(k, true) }

func (inj *Injector) key(k input.Key, up bool) {
	rec, ok := inj.keys[k]
	if !ok {
		inj.logger.Warn("Key has no code", "key", k, "mode", inj.mode)
		return
	}
	i := 0
	if up {
		i = 1
	}
	inj.write(rec[i], 1)
}

func (inj *Injector) MoveX(delta int) { inj.submit(moveInput(int32(delta), 0)) }

// MoveY treats positive deltas as forward, which is up on screen.
func (inj *Injector) MoveY(delta int) { inj.submit(moveInput(0, int32(-delta))) }

func (inj *Injector) submit(inputs ...Input) {
	inj.write(Encode(inputs, inj.ptrSize), len(inputs))
}

func (inj *Injector) write(buf []byte, n int) {
	if err := inj.send(buf, n); err != nil {
		inj.logger.Warn("SendInput failed", "error", err)
	}
}

func (inj *Injector) Close() error { return nil }

var _ dispatch.Injector = (*Injector)(nil)
