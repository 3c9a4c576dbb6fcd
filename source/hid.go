package source

import (
	"fmt"

	"github.com/karalabe/hid"
)

// DeviceInfo describes an attached HID device.
type DeviceInfo struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Manufacturer string
	Product      string
	Serial       string
	Interface    int
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%04x:%04x %s %s (%s)", d.VendorID, d.ProductID, d.Manufacturer, d.Product, d.Path)
}

// HIDSupported reports whether the hidapi backend was compiled in.
func HIDSupported() bool { return hid.Supported() }

// ListHID enumerates attached HID devices. Zero IDs match any device.
func ListHID(vid, pid uint16) []DeviceInfo {
	var out []DeviceInfo
	for _, info := range hid.Enumerate(vid, pid) {
		out = append(out, DeviceInfo{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Manufacturer: info.Manufacturer,
			Product:      info.Product,
			Serial:       info.Serial,
			Interface:    info.Interface,
		})
	}
	return out
}

// OpenHID opens the first HID device matching vid:pid through hidapi.
// hidapi reads block, so reads run on a background goroutine and are queued
// for the polling loop.
func OpenHID(vid, pid uint16, bufSize int) (Source, error) {
	devices := hid.Enumerate(vid, pid)
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: %04x:%04x", ErrDeviceNotFound, vid, pid)
	}
	dev, err := devices[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devices[0].Path, err)
	}
	return newAsync(dev, bufSize, 64), nil
}
