package viiper

import "github.com/attack3/joymap/input"

// HID modifier bits.
const (
	ModLeftCtrl  = 0x01
	ModLeftShift = 0x02
	ModLeftAlt   = 0x04
)

type hidKey struct {
	usage    uint8
	modifier uint8
}

// usages maps keys to HID keyboard usage codes. Ctrl, Shift and Alt are sent
// as modifier bits instead.
var usages = map[input.Key]hidKey{
	input.KeyCtrl:   {modifier: ModLeftCtrl},
	input.KeyShift:  {modifier: ModLeftShift},
	input.KeyAlt:    {modifier: ModLeftAlt},
	input.KeyEnter:  {usage: 0x28},
	input.KeyEscape: {usage: 0x29},
	input.KeyRight:  {usage: 0x4F},
	input.KeyLeft:   {usage: 0x50},
	input.KeyDown:   {usage: 0x51},
	input.KeyUp:     {usage: 0x52},
	input.Key0:      {usage: 0x27},
}

func init() {
	for k := input.KeyA; k <= input.KeyZ; k++ {
		usages[k] = hidKey{usage: 0x04 + uint8(k-input.KeyA)}
	}
	for k := input.Key1; k <= input.Key9; k++ {
		usages[k] = hidKey{usage: 0x1E + uint8(k-input.Key1)}
	}
	for k := input.KeyF1; k <= input.KeyF9; k++ {
		usages[k] = hidKey{usage: 0x3A + uint8(k-input.KeyF1)}
	}
}
