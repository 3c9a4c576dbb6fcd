//go:build !linux

package uinput

import (
	"log/slog"

	"github.com/attack3/joymap/inject"
	"github.com/attack3/joymap/input"
)

var keycodes = map[input.Key]int{}

func Open(path string, logger *slog.Logger) (*Injector, error) {
	return nil, inject.ErrUnsupported
}
