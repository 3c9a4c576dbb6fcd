package dispatch

import "github.com/attack3/joymap/input"

// Injector synthesizes OS-level keyboard and pointer events.
//
// Calls are fire-and-forget: implementations handle and log their own
// failures, nothing is reported back into the dispatch loop.
type Injector interface {
	KeyDown(k input.Key)
	KeyUp(k input.Key)
	// MoveX moves the pointer; positive is to the right.
	MoveX(delta int)
	// MoveY moves the pointer; positive is forward (up on screen).
	MoveY(delta int)
}
