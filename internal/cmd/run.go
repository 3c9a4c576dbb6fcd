package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/inject"
	"github.com/attack3/joymap/inject/viiper"
	"github.com/attack3/joymap/internal/log"
	"github.com/attack3/joymap/internal/monitor"
	"github.com/attack3/joymap/internal/poll"
)

// Feed configures the optional websocket state feed.
type Feed struct {
	Addr string `help:"Serve a websocket state and event feed at this address (e.g. localhost:3243)." env:"JOYMAP_MONITOR_ADDR"`
}

// Run maps the joystick to keyboard and mouse input until interrupted.
type Run struct {
	Input     Source        `embed:""`
	Profile   string        `help:"Mapping profile (yaml, toml or json)." type:"path" env:"JOYMAP_PROFILE"`
	Injector  string        `help:"Output backend." enum:"auto,viiper,uinput,sendinput,log" default:"auto" env:"JOYMAP_INJECTOR"`
	Interval  time.Duration `help:"Poll interval; overrides the profile." env:"JOYMAP_INTERVAL"`
	Viiper    viiper.Config `embed:"" prefix:"viiper."`
	Uinput    Uinput        `embed:"" prefix:"uinput."`
	SendInput SendInput     `embed:"" prefix:"sendinput."`
	Monitor   Feed          `embed:"" prefix:"monitor."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, rawLogger)
}

func (r *Run) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prof, err := loadProfile(r.Profile, logger)
	if err != nil {
		return err
	}
	bindings, err := prof.Bindings()
	if err != nil {
		return err
	}
	interval := r.Interval
	if interval <= 0 {
		interval = prof.PollInterval(poll.DefaultInterval)
	}

	src, err := r.Input.open(logger)
	if err != nil {
		return err
	}
	defer src.Close()

	out, closer, err := openInjector(ctx, r.Injector, r.Viiper, r.Uinput, r.SendInput, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn("Injector close failed", "error", err)
		}
	}()

	sinks := inject.Multi{out}
	if logger.Enabled(ctx, log.LevelTrace) {
		sinks = append(sinks, inject.Logger{Log: logger, Level: log.LevelTrace})
	}

	var observer poll.Observer
	monErr := make(chan error, 1)
	if r.Monitor.Addr != "" {
		hub := monitor.NewHub(logger)
		obs := &monitor.Observer{Hub: hub}
		sinks = append(sinks, obs)
		observer = obs
		go func() { monErr <- monitor.Serve(ctx, r.Monitor.Addr, hub) }()
	}

	manager, err := dispatch.New(bindings, sinks)
	if err != nil {
		return err
	}

	loop := &poll.Loop{
		Source:    src,
		Manager:   manager,
		Interval:  interval,
		Logger:    logger,
		RawLogger: rawLogger,
		Observer:  observer,
	}

	logger.Info("Mapping started", "interval", interval, "injector", r.Injector)
	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	select {
	case err := <-loopErr:
		if err != nil && replayDone(err) {
			logger.Info("Replay finished")
			return nil
		}
		return err
	case err := <-monErr:
		// The loop releases held keys once ctx ends; wait for it.
		cancel()
		if lerr := <-loopErr; err == nil {
			return lerr
		}
		return fmt.Errorf("monitor: %w", err)
	}
}
