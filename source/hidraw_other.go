//go:build !linux

package source

import "errors"

var errNoHidraw = errors.New("hidraw is only available on linux")

// Hidraw is unavailable off linux.
type Hidraw struct{}

func OpenHidraw(path string) (*Hidraw, error) { return nil, errNoHidraw }

func (h *Hidraw) Read(p []byte) (int, error) { return 0, errNoHidraw }

func (h *Hidraw) Close() error { return nil }

func FindHidraw(vid, pid uint16) (string, error) { return "", errNoHidraw }
