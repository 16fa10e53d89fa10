package gamepad

import "errors"

var (
	// ErrNoDevice is returned by backends asked to act on a slot that has no
	// native device behind it.
	ErrNoDevice = errors.New("gamepad: no device in slot")
	// ErrUnsupported is returned when a backend cannot play haptic effects.
	ErrUnsupported = errors.New("gamepad: operation not supported by backend")
	// ErrShortBuffer is returned when a snapshot buffer is smaller than the
	// fixed layout.
	ErrShortBuffer = errors.New("gamepad: snapshot buffer too short")
)

// Drop reasons reported to Metrics.
const (
	DropSlotsFull     = "slots_full"
	DropUnmapped      = "unmapped"
	DropUnknownDevice = "unknown_device"
	DropBadSnapshot   = "bad_snapshot"
)

// Metrics receives the conditions the engine swallows. Every method must be
// cheap; they run inside the tick.
type Metrics interface {
	InputDropped(reason string)
	RumbleDropped()
	RumblePlayed()
	Connected(n int)
}

type nopMetrics struct{}

func (nopMetrics) InputDropped(string) {}
func (nopMetrics) RumbleDropped()      {}
func (nopMetrics) RumblePlayed()       {}
func (nopMetrics) Connected(int)       {}
