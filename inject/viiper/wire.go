package viiper

import (
	"encoding/binary"
	"math"
)

// KeyboardState is the full keyboard state sent on every change.
// Internally a 256-bit bitmap of HID usage codes.
type KeyboardState struct {
	Modifiers uint8 // bit 0-2: LCtrl, LShift, LAlt
	KeyBitmap [32]uint8
}

func (st *KeyboardState) Press(usage uint8) {
	st.KeyBitmap[usage/8] |= 1 << (usage % 8)
}

func (st *KeyboardState) Release(usage uint8) {
	st.KeyBitmap[usage/8] &^= 1 << (usage % 8)
}

func (st *KeyboardState) Pressed(usage uint8) bool {
	return st.KeyBitmap[usage/8]&(1<<(usage%8)) != 0
}

// MarshalBinary encodes the state as:
//
//	Byte 0: Modifiers
//	Byte 1: Key count
//	Bytes 2+: HID usage codes of pressed keys, ascending
func (st *KeyboardState) MarshalBinary() ([]byte, error) {
	b := []byte{st.Modifiers, 0}
	for i := 0; i < 256; i++ {
		if st.Pressed(uint8(i)) {
			b = append(b, uint8(i))
		}
	}
	b[1] = uint8(len(b) - 2)
	return b, nil
}

// MouseReport is one relative mouse update.
type MouseReport struct {
	Buttons uint8
	DX, DY  int16
	Wheel   int16
	Pan     int16
}

// MarshalBinary encodes the 9-byte report: buttons:u8 dx:i16 dy:i16
// wheel:i16 pan:i16, little-endian.
func (m *MouseReport) MarshalBinary() ([]byte, error) {
	b := make([]byte, 9)
	b[0] = m.Buttons & 0x1F
	binary.LittleEndian.PutUint16(b[1:], uint16(m.DX))
	binary.LittleEndian.PutUint16(b[3:], uint16(m.DY))
	binary.LittleEndian.PutUint16(b[5:], uint16(m.Wheel))
	binary.LittleEndian.PutUint16(b[7:], uint16(m.Pan))
	return b, nil
}

func clampInt16(v int) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
