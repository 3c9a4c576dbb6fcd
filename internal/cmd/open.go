package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/attack3/joymap/device/attack3"
	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/inject"
	"github.com/attack3/joymap/inject/sendinput"
	"github.com/attack3/joymap/inject/uinput"
	"github.com/attack3/joymap/inject/viiper"
	"github.com/attack3/joymap/internal/configpaths"
	"github.com/attack3/joymap/internal/profile"
	"github.com/attack3/joymap/source"
)

// Source selects where raw reports come from.
type Source struct {
	Source string `help:"Input source: hid, hidraw[:path] or replay:<file>." default:"hid" env:"JOYMAP_SOURCE"`
	Record string `help:"Append raw device reads to this file for later replay." type:"path" env:"JOYMAP_RECORD"`
}

// open resolves the --source value. Replays end the run at EOF.
func (s Source) open(logger *slog.Logger) (source.Source, error) {
	kind, arg, _ := strings.Cut(s.Source, ":")
	var (
		src source.Source
		err error
	)
	switch strings.ToLower(kind) {
	case "hid", "":
		src, err = source.OpenHID(attack3.VendorID, attack3.ProductID, attack3.ReadBufferSize)
	case "hidraw":
		path := arg
		if path == "" {
			if path, err = source.FindHidraw(attack3.VendorID, attack3.ProductID); err != nil {
				return nil, err
			}
		}
		src, err = source.OpenHidraw(path)
	case "replay":
		if arg == "" {
			return nil, errors.New("replay source needs a file: replay:<file>")
		}
		var f *os.File
		if f, err = os.Open(arg); err == nil {
			r := source.NewReplay(f, attack3.PacketLength)
			r.StopAtEOF = true
			src = r
		}
	default:
		return nil, fmt.Errorf("unknown source %q", s.Source)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Opened source", "source", s.Source)

	if s.Record != "" {
		f, err := os.OpenFile(s.Record, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("open record file: %w", err)
		}
		logger.Info("Recording raw reads", "file", s.Record)
		src = source.Recorder{Source: src, W: f}
	}
	return src, nil
}

// replayDone reports whether err is a replay running out of data.
func replayDone(err error) bool {
	return errors.Is(err, io.EOF)
}

// SendInput carries the Windows backend settings.
type SendInput struct {
	Mode sendinput.Mode `help:"Key codes to send: normal (virtual keys) or directx (scan codes)." enum:"normal,directx" default:"normal" env:"JOYMAP_SENDINPUT_MODE"`
}

// Uinput carries the Linux backend settings.
type Uinput struct {
	Path string `help:"uinput control node." default:"/dev/uinput" env:"JOYMAP_UINPUT_PATH"`
}

// openInjector builds the named backend. "auto" picks the native backend
// of the platform.
func openInjector(ctx context.Context, name string, vc viiper.Config, uc Uinput, sc SendInput, logger *slog.Logger) (dispatch.Injector, io.Closer, error) {
	if name == "" || name == "auto" {
		switch runtime.GOOS {
		case "linux":
			name = "uinput"
		case "windows":
			name = "sendinput"
		default:
			name = "viiper"
		}
	}
	logger.Info("Opening injector", "injector", name)

	switch name {
	case "viiper":
		inj, err := viiper.Open(ctx, vc, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("viiper: %w", err)
		}
		return inj, inj, nil
	case "uinput":
		inj, err := uinput.Open(uc.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("uinput: %w", err)
		}
		return inj, inj, nil
	case "sendinput":
		inj, err := sendinput.Open(sc.Mode, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("sendinput: %w", err)
		}
		return inj, inj, nil
	case "log":
		return inject.Logger{Log: logger, Level: slog.LevelInfo}, io.NopCloser(nil), nil
	}
	return nil, nil, fmt.Errorf("unknown injector %q", name)
}

// loadProfile reads path, or the first profile found in the usual places,
// or falls back to the built-in layout.
func loadProfile(path string, logger *slog.Logger) (*profile.Profile, error) {
	if path != "" {
		return profile.Load(path)
	}
	for _, candidate := range configpaths.ProfileCandidatePaths() {
		if _, err := os.Stat(candidate); err == nil {
			logger.Info("Using profile", "file", candidate)
			return profile.Load(candidate)
		}
	}
	logger.Info("No profile found, using the default WASD layout")
	return profile.Default(), nil
}
