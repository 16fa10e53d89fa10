// Package eventstream adapts sources that deliver discrete connect,
// disconnect, button and axis events keyed by a native device handle.
package eventstream

import "github.com/soar/gamepads/gamepad"

// Kind is the type of an Event.
type Kind uint8

const (
	Connected Kind = iota + 1
	Disconnected
	ButtonPressed
	ButtonReleased
	AxisChanged
)

var kindNames = [...]string{"", "connected", "disconnected", "button_pressed", "button_released", "axis_changed"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && k != 0 {
		return kindNames[k]
	}
	return "unknown"
}

// NativeButton is the source vocabulary for buttons.
type NativeButton uint8

const (
	Unknown NativeButton = iota
	South
	East
	North
	West
	C
	Z
	LeftTrigger
	LeftTrigger2
	RightTrigger
	RightTrigger2
	Select
	Start
	Mode
	LeftThumb
	RightThumb
	DPadUp
	DPadDown
	DPadLeft
	DPadRight
)

// NativeAxis is the source vocabulary for analog axes.
type NativeAxis uint8

const (
	AxisUnknown NativeAxis = iota
	LeftStickX
	LeftStickY
	LeftZ
	RightStickX
	RightStickY
	RightZ
	DPadX
	DPadY
)

// Event is one input occurrence for device H. Button is set for button
// events, Axis and Value for AxisChanged. Value is in [-1, 1], Y up.
type Event[H comparable] struct {
	Kind   Kind
	Device H
	Button NativeButton
	Axis   NativeAxis
	Value  float32
}

// Source delivers events in the order they happened.
type Source[H comparable] interface {
	// NextEvent returns the next pending event, or false once drained.
	NextEvent() (Event[H], bool)
	// Deadzone reports the calibrated deadzone of a device axis.
	Deadzone(h H, axis NativeAxis) (float32, bool)
	Rumble(h H, r gamepad.Rumble) (gamepad.Playback, error)
	MagnitudeMax() uint32
	Close() error
}

var buttonMap = map[NativeButton]gamepad.Button{
	South:         gamepad.ActionDown,
	East:          gamepad.ActionRight,
	West:          gamepad.ActionLeft,
	North:         gamepad.ActionUp,
	LeftTrigger:   gamepad.FrontLeftUpper,
	RightTrigger:  gamepad.FrontRightUpper,
	LeftTrigger2:  gamepad.FrontLeftLower,
	RightTrigger2: gamepad.FrontRightLower,
	Select:        gamepad.LeftCenterCluster,
	Start:         gamepad.RightCenterCluster,
	LeftThumb:     gamepad.LeftStick,
	RightThumb:    gamepad.RightStick,
	DPadUp:        gamepad.DPadUp,
	DPadDown:      gamepad.DPadDown,
	DPadLeft:      gamepad.DPadLeft,
	DPadRight:     gamepad.DPadRight,
	Mode:          gamepad.Mode,
}

// MapButton translates a native button. C, Z and Unknown have no logical
// counterpart.
func MapButton(b NativeButton) (gamepad.Button, bool) {
	lb, ok := buttonMap[b]
	return lb, ok
}

// MapAxis translates a native axis to a stick channel.
func MapAxis(a NativeAxis) (gamepad.Axis, bool) {
	switch a {
	case LeftStickX:
		return gamepad.LeftStickX, true
	case LeftStickY:
		return gamepad.LeftStickY, true
	case RightStickX:
		return gamepad.RightStickX, true
	case RightStickY:
		return gamepad.RightStickY, true
	}
	return 0, false
}

var stickAxes = [gamepad.NumAxes]NativeAxis{LeftStickX, LeftStickY, RightStickX, RightStickY}
