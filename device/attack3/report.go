// Package attack3 decodes Logitech Attack 3 HID reports and normalizes them
// into logical joystick states.
package attack3

import (
	"errors"
	"fmt"
	"strings"

	"github.com/attack3/joymap/input"
)

// ErrMalformedPacket is returned for a buffer that is not exactly one report long.
var ErrMalformedPacket = errors.New("malformed packet")

var lowMasks = [8]uint8{Button1, Button2, Button3, Button4, Button5, Button6, Button7, Button8}
var highMasks = [3]uint8{Button9, Button10, Button11}

// Report is one raw hardware sample.
type Report struct {
	Buttons [input.ButtonCount]bool
	X, Y, Z uint8
}

// Decode parses a single report.
//
// Report layout (5 bytes):
//
//	Byte 0: X axis
//	Byte 1: Y axis
//	Byte 2: Z axis (throttle)
//	Byte 3: Buttons 1-8 (bit 0 = button 1)
//	Byte 4: Buttons 9-11 (bits 0-2)
func Decode(b []byte) (Report, error) {
	var r Report
	if err := r.UnmarshalBinary(b); err != nil {
		return Report{}, err
	}
	return r, nil
}

// UnmarshalBinary decodes exactly PacketLength bytes into the report.
func (r *Report) UnmarshalBinary(data []byte) error {
	if len(data) != PacketLength {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedPacket, len(data), PacketLength)
	}
	*r = decode(data)
	return nil
}

// decode reads a report from at least PacketLength bytes.
func decode(data []byte) Report {
	var r Report
	r.X = data[0]
	r.Y = data[1]
	r.Z = data[2]
	for i, m := range lowMasks {
		r.Buttons[i] = data[3]&m != 0
	}
	for i, m := range highMasks {
		r.Buttons[len(lowMasks)+i] = data[4]&m != 0
	}
	return r
}

// MarshalBinary encodes the report back into its 5-byte wire form.
func (r *Report) MarshalBinary() ([]byte, error) {
	b := make([]byte, PacketLength)
	b[0] = r.X
	b[1] = r.Y
	b[2] = r.Z
	for i, m := range lowMasks {
		if r.Buttons[i] {
			b[3] |= m
		}
	}
	for i, m := range highMasks {
		if r.Buttons[len(lowMasks)+i] {
			b[4] |= m
		}
	}
	return b, nil
}

func (r Report) String() string {
	var b strings.Builder
	b.WriteString("buttons=[")
	first := true
	for i, pressed := range r.Buttons {
		if !pressed {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "%d", i+1)
	}
	fmt.Fprintf(&b, "] x=0x%02X y=0x%02X z=0x%02X", r.X, r.Y, r.Z)
	return b.String()
}

// Split decodes every complete report in a read buffer. A device may queue
// several reports and deliver them back to back in one read; bytes that do not
// form a whole report are counted in trailing and otherwise ignored.
func Split(buf []byte) (reports []Report, trailing int) {
	n := len(buf) / PacketLength
	if n == 0 {
		return nil, len(buf)
	}
	reports = make([]Report, n)
	for i := range reports {
		off := i * PacketLength
		reports[i] = decode(buf[off : off+PacketLength])
	}
	return reports, len(buf) % PacketLength
}
