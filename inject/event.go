// Package inject holds the injector plumbing shared by every backend: event
// values, the logging and recording injectors and fan-out.
package inject

import (
	"errors"
	"fmt"

	"github.com/attack3/joymap/input"
)

// ErrUnsupported is returned by backends that cannot run on this platform.
var ErrUnsupported = errors.New("injector not supported on this platform")

// EventKind names an injector call.
type EventKind string

const (
	KeyDown EventKind = "key_down"
	KeyUp   EventKind = "key_up"
	MoveX   EventKind = "move_x"
	MoveY   EventKind = "move_y"
)

// Event is one injector call as a value.
type Event struct {
	Kind  EventKind `json:"kind"`
	Key   input.Key `json:"key,omitempty"`
	Delta int       `json:"delta,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case KeyDown, KeyUp:
		return fmt.Sprintf("%s %s", e.Kind, e.Key)
	default:
		return fmt.Sprintf("%s %+d", e.Kind, e.Delta)
	}
}

// Sink receives injector calls as events.
type Sink func(Event)

func (s Sink) KeyDown(k input.Key) { s(Event{Kind: KeyDown, Key: k}) }
func (s Sink) KeyUp(k input.Key)   { s(Event{Kind: KeyUp, Key: k}) }
func (s Sink) MoveX(delta int)     { s(Event{Kind: MoveX, Delta: delta}) }
func (s Sink) MoveY(delta int)     { s(Event{Kind: MoveY, Delta: delta}) }
