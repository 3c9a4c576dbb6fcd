package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/attack3/joymap/device/attack3"
	"github.com/attack3/joymap/source"
)

// Devices lists attached HID devices.
type Devices struct {
	All bool `help:"List every HID device, not only Attack 3 joysticks."`
}

// Run is called by Kong when the devices command is executed.
func (d *Devices) Run(logger *slog.Logger) error {
	return d.list(os.Stdout, logger)
}

func (d *Devices) list(w io.Writer, logger *slog.Logger) error {
	if !source.HIDSupported() {
		return errors.New("HID enumeration is not supported on this platform")
	}
	var vid, pid uint16 = attack3.VendorID, attack3.ProductID
	if d.All {
		vid, pid = 0, 0
	}
	devs := source.ListHID(vid, pid)
	logger.Debug("Enumerated HID devices", "count", len(devs))
	if len(devs) == 0 {
		fmt.Fprintln(w, "no devices found")
		return nil
	}
	for _, dev := range devs {
		fmt.Fprintln(w, dev.String())
	}
	return nil
}
