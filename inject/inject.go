package inject

import (
	"context"
	"log/slog"
	"sync"

	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/input"
)

// Recorder keeps every call it receives. It backs tests and the monitor feed.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) KeyDown(k input.Key) { r.record(Event{Kind: KeyDown, Key: k}) }
func (r *Recorder) KeyUp(k input.Key)   { r.record(Event{Kind: KeyUp, Key: k}) }
func (r *Recorder) MoveX(delta int)     { r.record(Event{Kind: MoveX, Delta: delta}) }
func (r *Recorder) MoveY(delta int)     { r.record(Event{Kind: MoveY, Delta: delta}) }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Take returns the recorded events and clears the recorder.
func (r *Recorder) Take() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Logger writes every call to a slog.Logger. With Level set to info it is a
// dry-run injector; at trace level it shadows a real backend for debugging.
type Logger struct {
	Log   *slog.Logger
	Level slog.Level
}

func (l Logger) emit(e Event) {
	if l.Log == nil {
		return
	}
	l.Log.Log(context.Background(), l.Level, "inject", "event", e.Kind, "key", e.Key.String(), "delta", e.Delta)
}

func (l Logger) KeyDown(k input.Key) { l.emit(Event{Kind: KeyDown, Key: k}) }
func (l Logger) KeyUp(k input.Key)   { l.emit(Event{Kind: KeyUp, Key: k}) }
func (l Logger) MoveX(delta int)     { l.emit(Event{Kind: MoveX, Delta: delta}) }
func (l Logger) MoveY(delta int)     { l.emit(Event{Kind: MoveY, Delta: delta}) }

// Multi forwards every call to each injector in order.
type Multi []dispatch.Injector

func (m Multi) KeyDown(k input.Key) {
	for _, inj := range m {
		inj.KeyDown(k)
	}
}

func (m Multi) KeyUp(k input.Key) {
	for _, inj := range m {
		inj.KeyUp(k)
	}
}

func (m Multi) MoveX(delta int) {
	for _, inj := range m {
		inj.MoveX(delta)
	}
}

func (m Multi) MoveY(delta int) {
	for _, inj := range m {
		inj.MoveY(delta)
	}
}

var (
	_ dispatch.Injector = (*Recorder)(nil)
	_ dispatch.Injector = Logger{}
	_ dispatch.Injector = Multi(nil)
	_ dispatch.Injector = Sink(nil)
)
