//go:build linux

package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Hidraw reads a /dev/hidrawN node in non-blocking mode.
type Hidraw struct {
	fd   int
	path string
}

// OpenHidraw opens path with O_NONBLOCK so Read never stalls the loop.
func OpenHidraw(path string) (*Hidraw, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Hidraw{fd: fd, path: path}, nil
}

// Read returns 0, nil when no report is queued.
func (h *Hidraw) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(h.fd, p)
		switch {
		case err == nil:
			return n, nil
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, nil
		default:
			return 0, fmt.Errorf("read %s: %w", h.path, err)
		}
	}
}

func (h *Hidraw) Close() error {
	return unix.Close(h.fd)
}

// FindHidraw returns the /dev node of the first hidraw device whose HID_ID
// matches vid:pid.
func FindHidraw(vid, pid uint16) (string, error) {
	return findHidraw("/sys/class/hidraw", "/dev", vid, pid)
}

func findHidraw(sysDir, devDir string, vid, pid uint16) (string, error) {
	entries, err := os.ReadDir(sysDir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", sysDir, err)
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(sysDir, e.Name(), "device", "uevent"))
		if err != nil {
			continue
		}
		if hidIDMatches(string(data), vid, pid) {
			return filepath.Join(devDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: %04x:%04x", ErrDeviceNotFound, vid, pid)
}

// hidIDMatches parses the uevent HID_ID line: bus:vendor:product, zero padded hex.
func hidIDMatches(uevent string, vid, pid uint16) bool {
	for _, line := range strings.Split(uevent, "\n") {
		v, ok := strings.CutPrefix(strings.TrimSpace(line), "HID_ID=")
		if !ok {
			continue
		}
		var bus, gotVid, gotPid uint32
		if _, err := fmt.Sscanf(v, "%x:%x:%x", &bus, &gotVid, &gotPid); err != nil {
			return false
		}
		return gotVid == uint32(vid) && gotPid == uint32(pid)
	}
	return false
}
