package monitor

import (
	"encoding/json"
	"time"

	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/inject"
	"github.com/attack3/joymap/input"
)

const (
	TypeState = "state"
	TypeEvent = "event"
)

// Envelope is one message on the feed.
type Envelope struct {
	Type string `json:"type"`
	TS   int64  `json:"ts"`
	Data any    `json:"data"`
}

// StateData is the logical state as sent to clients.
type StateData struct {
	Buttons []int   `json:"buttons"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// Observer publishes every polled state and every injector call to a hub.
// Combine it with a real backend through inject.Multi.
type Observer struct {
	Hub *Hub
	Now func() time.Time
}

func (o *Observer) publish(kind string, data any) {
	if o.Hub.Clients() == 0 {
		return
	}
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	msg, err := json.Marshal(Envelope{Type: kind, TS: now().UnixMilli(), Data: data})
	if err != nil {
		o.Hub.logger.Warn("Monitor encode failed", "error", err)
		return
	}
	o.Hub.Broadcast(msg)
}

func (o *Observer) Observe(s input.State) {
	pressed := s.Pressed()
	if pressed == nil {
		pressed = []int{}
	}
	o.publish(TypeState, StateData{Buttons: pressed, X: s.X, Y: s.Y, Z: s.Z})
}

func (o *Observer) KeyDown(k input.Key) { o.publish(TypeEvent, inject.Event{Kind: inject.KeyDown, Key: k}) }
func (o *Observer) KeyUp(k input.Key)   { o.publish(TypeEvent, inject.Event{Kind: inject.KeyUp, Key: k}) }
func (o *Observer) MoveX(delta int)     { o.publish(TypeEvent, inject.Event{Kind: inject.MoveX, Delta: delta}) }
func (o *Observer) MoveY(delta int)     { o.publish(TypeEvent, inject.Event{Kind: inject.MoveY, Delta: delta}) }

var _ dispatch.Injector = (*Observer)(nil)
