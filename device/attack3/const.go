package attack3

// USB identifiers of the Logitech Attack 3.
const (
	VendorID  = 0x046d
	ProductID = 0xc214
)

// PacketLength is the size of one input report.
const PacketLength = 5

// ReadBufferSize is large enough to drain a backlog of queued reports in one read.
const ReadBufferSize = 1024

// Button bitmasks. Buttons 1-8 live in byte 3, buttons 9-11 in byte 4.
const (
	Button1  = 0x01
	Button2  = 0x02
	Button3  = 0x04
	Button4  = 0x08
	Button5  = 0x10
	Button6  = 0x20
	Button7  = 0x40
	Button8  = 0x80
	Button9  = 0x01
	Button10 = 0x02
	Button11 = 0x04
)

// axisCenter is the fixed zero point of the Z (throttle) axis.
const axisCenter = 128
