// Package poll drives the dispatch engine from a device source at a fixed
// cadence.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/attack3/joymap/device/attack3"
	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/input"
	"github.com/attack3/joymap/internal/log"
	"github.com/attack3/joymap/source"
)

// ErrDeviceRead wraps every error returned by the source.
var ErrDeviceRead = errors.New("device read failed")

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 5 * time.Millisecond

// Observer sees every state submitted to the manager.
type Observer interface {
	Observe(input.State)
}

// Loop reads the source every Interval and steps the manager with each report.
type Loop struct {
	Source    source.Source
	Manager   *dispatch.Manager
	Interval  time.Duration
	Logger    *slog.Logger
	RawLogger log.RawLogger
	Observer  Observer

	calibration *attack3.Calibration
	latest      *attack3.Report
}

// Run polls until ctx is done or the source fails. Held keys are released in
// both cases.
func (l *Loop) Run(ctx context.Context) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	defer l.Manager.Release()

	buf := make([]byte, attack3.ReadBufferSize)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Polling stopped")
			return nil
		case <-timer.C:
		}

		if err := l.tick(buf, logger); err != nil {
			logger.Error("Device read failed", "error", err)
			return err
		}
		timer.Reset(interval)
	}
}

func (l *Loop) tick(buf []byte, logger *slog.Logger) error {
	n, err := l.Source.Read(buf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceRead, err)
	}
	var reports []attack3.Report
	if n > 0 {
		if l.RawLogger != nil {
			l.RawLogger.Log(buf[:n])
		}
		var trailing int
		reports, trailing = attack3.Split(buf[:n])
		if trailing > 0 {
			logger.Debug("Skipping partial report", "bytes", trailing)
		}
	}

	if len(reports) == 0 {
		// Idle: re-submit the last known state so held deflection keeps moving.
		if l.latest != nil {
			l.submit(*l.latest)
		}
		return nil
	}

	if l.calibration == nil {
		c := attack3.CalibrationFrom(reports[0])
		l.calibration = &c
		logger.Info("Calibrated", "centerX", c.X, "centerY", c.Y)
	}
	// Every queued report is stepped so no button edge is lost.
	for _, r := range reports {
		l.submit(r)
	}
	newest := reports[len(reports)-1]
	l.latest = &newest
	logger.Log(context.Background(), log.LevelTrace, "Report", "reports", len(reports), "newest", newest)
	return nil
}

func (l *Loop) submit(r attack3.Report) {
	state := attack3.Normalize(r, *l.calibration)
	l.Manager.Step(state)
	if l.Observer != nil {
		l.Observer.Observe(state)
	}
}

// Calibration returns the captured center, or nil before the first report.
func (l *Loop) Calibration() *attack3.Calibration {
	return l.calibration
}
