package sendinput

import "github.com/attack3/joymap/input"

// virtualKeys maps keys to Windows virtual-key codes.
var virtualKeys = map[input.Key]uint16{
	input.KeyEnter:  0x0D,
	input.KeyShift:  0x10,
	input.KeyCtrl:   0x11,
	input.KeyAlt:    0x12,
	input.KeyEscape: 0x1B,
	input.KeyLeft:   0x25,
	input.KeyUp:     0x26,
	input.KeyRight:  0x27,
	input.KeyDown:   0x28,
}

// scanCodes maps keys to DirectInput (DIK_*) scan codes. Codes at or above
// 0x80 are extended keys.
var scanCodes = map[input.Key]uint16{
	input.KeyA: 0x1E, input.KeyB: 0x30, input.KeyC: 0x2E, input.KeyD: 0x20,
	input.KeyE: 0x12, input.KeyF: 0x21, input.KeyG: 0x22, input.KeyH: 0x23,
	input.KeyI: 0x17, input.KeyJ: 0x24, input.KeyK: 0x25, input.KeyL: 0x26,
	input.KeyM: 0x32, input.KeyN: 0x31, input.KeyO: 0x18, input.KeyP: 0x19,
	input.KeyQ: 0x10, input.KeyR: 0x13, input.KeyS: 0x1F, input.KeyT: 0x14,
	input.KeyU: 0x16, input.KeyV: 0x2F, input.KeyW: 0x11, input.KeyX: 0x2D,
	input.KeyY: 0x15, input.KeyZ: 0x2C,

	input.KeyAlt:    0x38,
	input.KeyShift:  0x36,
	input.KeyCtrl:   0x1D,
	input.KeyEnter:  0x1C,
	input.KeyEscape: 0x01,

	input.KeyLeft:  0xCB,
	input.KeyUp:    0xC8,
	input.KeyRight: 0xCD,
	input.KeyDown:  0xD0,

	input.Key0: 0x0B,
}

func init() {
	for k := input.KeyA; k <= input.KeyZ; k++ {
		virtualKeys[k] = 0x41 + uint16(k-input.KeyA)
	}
	for k := input.Key0; k <= input.Key9; k++ {
		virtualKeys[k] = 0x30 + uint16(k-input.Key0)
	}
	for k := input.Key1; k <= input.Key9; k++ {
		scanCodes[k] = 0x02 + uint16(k-input.Key1)
	}
	for k := input.KeyF1; k <= input.KeyF9; k++ {
		virtualKeys[k] = 0x70 + uint16(k-input.KeyF1)
		scanCodes[k] = 0x3B + uint16(k-input.KeyF1)
	}
}
