package viiper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/input"
)

const (
	deviceKeyboard = "keyboard"
	deviceMouse    = "mouse"
)

// Injector forwards dispatch calls to a virtual keyboard and mouse on a
// VIIPER bus. Every key change sends the full keyboard state.
type Injector struct {
	client *Client
	logger *slog.Logger

	busID      uint32
	createdBus bool
	devices    []*Device
	keyboard   *Stream
	mouse      *Stream

	mu    sync.Mutex
	state KeyboardState
}

// Open attaches a keyboard and a mouse to the configured bus and connects
// to their streams.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Injector, error) {
	return open(ctx, NewClient(cfg), cfg.Bus, logger)
}

func open(ctx context.Context, client *Client, bus uint32, logger *slog.Logger) (*Injector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	inj := &Injector{client: client, logger: logger}

	var err error
	if inj.busID, inj.createdBus, err = pickBus(ctx, client, bus); err != nil {
		return nil, err
	}
	logger.Info("Using VIIPER bus", "bus", inj.busID, "created", inj.createdBus)

	if inj.keyboard, err = inj.attach(ctx, deviceKeyboard); err == nil {
		inj.mouse, err = inj.attach(ctx, deviceMouse)
	}
	if err != nil {
		if cerr := inj.Close(); cerr != nil {
			logger.Warn("VIIPER cleanup failed", "error", cerr)
		}
		return nil, err
	}
	return inj, nil
}

func pickBus(ctx context.Context, client *Client, want uint32) (uint32, bool, error) {
	list, err := client.BusList(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("list buses: %w", err)
	}
	if want == 0 && len(list.Buses) > 0 {
		return list.Buses[0], false, nil
	}
	if want != 0 && slices.Contains(list.Buses, want) {
		return want, false, nil
	}
	created, err := client.BusCreate(ctx, want)
	if err != nil {
		return 0, false, fmt.Errorf("create bus: %w", err)
	}
	return created.BusID, true, nil
}

func (inj *Injector) attach(ctx context.Context, devType string) (*Stream, error) {
	dev, err := inj.client.DeviceAdd(ctx, inj.busID, devType)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", devType, err)
	}
	inj.devices = append(inj.devices, dev)
	inj.logger.Info("Added VIIPER device", "type", devType, "bus", dev.BusID, "dev", dev.DevID)

	s, err := inj.client.OpenStream(ctx, inj.busID, dev.DevID)
	if err != nil {
		return nil, fmt.Errorf("open %s stream: %w", devType, err)
	}
	return s, nil
}

func (inj *Injector) KeyDown(k input.Key) { inj.setKey(k, true) }
func (inj *Injector) KeyUp(k input.Key)   { inj.setKey(k, false) }

func (inj *Injector) setKey(k input.Key, down bool) {
	hk, ok := usages[k]
	if !ok {
		inj.logger.Warn("Key has no HID usage", "key", k)
		return
	}

	inj.mu.Lock()
	switch {
	case hk.modifier != 0 && down:
		inj.state.Modifiers |= hk.modifier
	case hk.modifier != 0:
		inj.state.Modifiers &^= hk.modifier
	case down:
		inj.state.Press(hk.usage)
	default:
		inj.state.Release(hk.usage)
	}
	snapshot := inj.state
	inj.mu.Unlock()

	if err := inj.keyboard.WriteBinary(&snapshot); err != nil {
		inj.logger.Warn("Keyboard write failed", "key", k, "error", err)
	}
}

func (inj *Injector) MoveX(delta int) {
	inj.move(&MouseReport{DX: clampInt16(delta)})
}

// MoveY treats positive deltas as forward, which is up on screen and
// negative in HID coordinates.
func (inj *Injector) MoveY(delta int) {
	inj.move(&MouseReport{DY: clampInt16(-delta)})
}

func (inj *Injector) move(r *MouseReport) {
	if err := inj.mouse.WriteBinary(r); err != nil {
		inj.logger.Warn("Mouse write failed", "error", err)
	}
}

// Close disconnects the streams and removes the devices it added, and the
// bus when it created one.
func (inj *Injector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	for _, s := range []*Stream{inj.keyboard, inj.mouse} {
		if s != nil {
			errs = append(errs, s.Close())
		}
	}
	for _, dev := range inj.devices {
		if _, err := inj.client.DeviceRemove(ctx, inj.busID, dev.DevID); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", dev.Type, err))
		}
	}
	inj.devices = nil
	if inj.createdBus {
		if _, err := inj.client.BusRemove(ctx, inj.busID); err != nil {
			errs = append(errs, fmt.Errorf("remove bus: %w", err))
		}
		inj.createdBus = false
	}
	return errors.Join(errs...)
}

var _ dispatch.Injector = (*Injector)(nil)
