//go:build windows

package sendinput

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

// Open returns an injector bound to the current desktop session.
func Open(mode Mode, logger *slog.Logger) (*Injector, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, fmt.Errorf("load SendInput: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if mode == "" {
		mode = ModeNormal
	}
	ptrSize := int(unsafe.Sizeof(uintptr(0)))
	logger.Info("Using SendInput", "mode", mode)
	return newInjector(mode, ptrSize, sendInput(ptrSize), logger), nil
}

func sendInput(ptrSize int) sendFunc {
	size := InputSize(ptrSize)
	return func(buf []byte, n int) error {
		if n == 0 {
			return nil
		}
		sent, _, err := procSendInput.Call(uintptr(n), uintptr(unsafe.Pointer(&buf[0])), uintptr(size))
		if int(sent) != n {
			return fmt.Errorf("sent %d of %d inputs: %w", sent, n, err)
		}
		return nil
	}
}
