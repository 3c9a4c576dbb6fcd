package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/attack3/joymap/device/attack3"
	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/inject"
	"github.com/attack3/joymap/input"
	"github.com/attack3/joymap/internal/log"
	"github.com/attack3/joymap/internal/poll"
)

// Monitor prints the joystick's reports without injecting anything.
type Monitor struct {
	Input    Source        `embed:""`
	States   bool          `help:"Also print the normalized state whenever it changes." env:"JOYMAP_MONITOR_STATES"`
	Interval time.Duration `help:"Poll interval." default:"5ms" env:"JOYMAP_MONITOR_INTERVAL"`
}

// Run is called by Kong when the monitor command is executed.
func (m *Monitor) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return m.Start(ctx, os.Stdout, logger, rawLogger)
}

func (m *Monitor) Start(ctx context.Context, w io.Writer, logger *slog.Logger, rawLogger log.RawLogger) error {
	src, err := m.Input.open(logger)
	if err != nil {
		return err
	}
	defer src.Close()

	// No bindings: the manager only tracks state.
	none := dispatch.AxisBinding{Mode: dispatch.AxisNone}
	manager, err := dispatch.New(dispatch.Bindings{X: none, Y: none, Z: none}, inject.Sink(func(inject.Event) {}))
	if err != nil {
		return err
	}

	out := &reportPrinter{w: w, next: rawLogger}
	loop := &poll.Loop{
		Source:    src,
		Manager:   manager,
		Interval:  m.Interval,
		Logger:    logger,
		RawLogger: out,
	}
	if m.States {
		loop.Observer = out
	}

	err = loop.Run(ctx)
	if err != nil && replayDone(err) {
		return nil
	}
	return err
}

// reportPrinter writes one line per decoded report and, as an observer, one
// line per distinct state.
type reportPrinter struct {
	w    io.Writer
	next log.RawLogger

	mu   sync.Mutex
	last *input.State
}

func (p *reportPrinter) Log(data []byte) {
	if p.next != nil {
		p.next.Log(data)
	}
	reports, _ := attack3.Split(data)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range reports {
		fmt.Fprintf(p.w, "report %s\n", r)
	}
}

func (p *reportPrinter) Observe(s input.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last != nil && *p.last == s {
		return
	}
	p.last = &s
	fmt.Fprintf(p.w, "state  %s\n", s)
}
