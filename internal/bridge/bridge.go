// Package bridge models the connection between the viewer and the rendering
// engine's accept-image entry point.
//
// The connection is a two-state machine. It starts Unbound while the engine
// initializes and becomes Bound exactly once, when the engine reports it is
// ready. Deliveries to an Unbound bridge are dropped; the viewer re-delivers
// the current image when the bridge binds.
package bridge

import (
	"context"
	"errors"
)

// ErrNotBound reports a delivery attempted before the engine was ready.
var ErrNotBound = errors.New("engine bridge is not bound")

// AcceptFunc hands an encoded image to the engine. The engine reads data for
// the duration of the call only.
type AcceptFunc func(data []byte, size int)

// Engine is the rendering engine as seen by the viewer.
type Engine interface {
	// Start begins engine initialization and returns immediately.
	// ready is called once, from any goroutine, when the engine can accept
	// Setup and LoadImage calls.
	Start(ctx context.Context, ready func()) error

	// Setup configures the render surface size in pixels. Called once,
	// before any LoadImage.
	Setup(width, height int)

	// LoadImage replaces the displayed image with the encoded data[:size].
	LoadImage(data []byte, size int)

	// RequestFullScreen toggles the engine's fullscreen mode.
	RequestFullScreen()
}

// State is either Unbound or Bound.
type State interface {
	bridgeState()
}

// Unbound is the state before the engine is ready.
type Unbound struct{}

func (Unbound) bridgeState() {}

// Bound holds the engine's accept-image entry point.
type Bound struct {
	Accept AcceptFunc
}

func (Bound) bridgeState() {}

// IsBound reports whether s is Bound.
func IsBound(s State) bool {
	_, ok := s.(Bound)
	return ok
}

// Bind returns the Bound state for accept. Binding an already Bound state
// returns it unchanged with ok false: a bridge never rebinds.
func Bind(s State, accept AcceptFunc) (next State, ok bool) {
	if b, bound := s.(Bound); bound {
		return b, false
	}
	return Bound{Accept: accept}, true
}

// Deliver hands data to the engine if s is Bound and reports whether it did.
// Delivering to an Unbound bridge is a no-op.
func Deliver(s State, data []byte, size int) bool {
	switch b := s.(type) {
	case Bound:
		b.Accept(data, size)
		return true
	default:
		return false
	}
}

// MustDeliver is Deliver for call sites that have already established the
// bridge is Bound. Reaching it while Unbound is a programming error; see
// invariant.
func MustDeliver(s State, data []byte, size int) error {
	if Deliver(s, data, size) {
		return nil
	}
	invariant(ErrNotBound)
	return ErrNotBound
}
