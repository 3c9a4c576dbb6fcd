package sendinput

import "encoding/binary"

// INPUT.type values.
const (
	inputMouse    = 0
	inputKeyboard = 1
)

// Event flags.
const (
	KeyEventExtendedKey = 0x0001
	KeyEventKeyUp       = 0x0002
	KeyEventScanCode    = 0x0008
	MouseEventMove      = 0x0001
)

// Input is one INPUT record before serialization. Only the fields of the
// union member selected by Type are encoded.
type Input struct {
	Type uint32

	// KEYBDINPUT
	VK    uint16
	Scan  uint16
	Flags uint32

	// MOUSEINPUT
	DX, DY    int32
	MouseData uint32
}

func keyInput(vk, scan uint16, flags uint32) Input {
	return Input{Type: inputKeyboard, VK: vk, Scan: scan, Flags: flags}
}

func moveInput(dx, dy int32) Input {
	return Input{Type: inputMouse, DX: dx, DY: dy, Flags: MouseEventMove}
}

// InputSize is sizeof(INPUT) for the given pointer size: the union is
// pointer aligned and as large as MOUSEINPUT.
func InputSize(ptrSize int) int {
	mouse := 5*4 + ptrSize
	if ptrSize == 8 {
		mouse += 4
	}
	return ptrSize + mouse
}

// Encode lays out inputs as a contiguous INPUT array for SendInput. time and
// dwExtraInfo are left zero.
func Encode(inputs []Input, ptrSize int) []byte {
	size := InputSize(ptrSize)
	buf := make([]byte, size*len(inputs))
	le := binary.LittleEndian
	for i, in := range inputs {
		rec := buf[i*size : (i+1)*size]
		le.PutUint32(rec[0:], in.Type)
		u := rec[ptrSize:]
		switch in.Type {
		case inputKeyboard:
			le.PutUint16(u[0:], in.VK)
			le.PutUint16(u[2:], in.Scan)
			le.PutUint32(u[4:], in.Flags)
		case inputMouse:
			le.PutUint32(u[0:], uint32(in.DX))
			le.PutUint32(u[4:], uint32(in.DY))
			le.PutUint32(u[8:], in.MouseData)
			le.PutUint32(u[12:], in.Flags)
		}
	}
	return buf
}
