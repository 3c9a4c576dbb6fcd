//go:build !windows

package sendinput

import (
	"log/slog"

	"github.com/attack3/joymap/inject"
)

func Open(mode Mode, logger *slog.Logger) (*Injector, error) {
	return nil, inject.ErrUnsupported
}
