package gamepad

import (
	"iter"
	"strconv"
)

// Button is a logical gamepad button. The order follows the W3C standard
// gamepad layout and doubles as the bit index in the pressed masks.
type Button uint8

const (
	ActionDown         Button = iota // bottom button in right cluster
	ActionRight                      // right button in right cluster
	ActionLeft                       // left button in right cluster
	ActionUp                         // top button in right cluster
	FrontLeftUpper                   // left bumper
	FrontRightUpper                  // right bumper
	FrontLeftLower                   // left trigger
	FrontRightLower                  // right trigger
	LeftCenterCluster                // select / back / share
	RightCenterCluster               // start / forward / options
	LeftStick                        // left stick click
	RightStick                       // right stick click
	DPadUp
	DPadDown
	DPadLeft
	DPadRight
	Mode // center button (home, guide, PS)

	NumButtons = int(Mode) + 1
)

var buttonNames = [NumButtons]string{
	"action_down", "action_right", "action_left", "action_up",
	"front_left_upper", "front_right_upper", "front_left_lower", "front_right_lower",
	"left_center_cluster", "right_center_cluster",
	"left_stick", "right_stick",
	"dpad_up", "dpad_down", "dpad_left", "dpad_right",
	"mode",
}

func (b Button) String() string {
	if b.Valid() {
		return buttonNames[b]
	}
	return "button(" + strconv.Itoa(int(b)) + ")"
}

// Valid reports whether b is one of the 17 logical buttons.
func (b Button) Valid() bool { return int(b) < NumButtons }

// Bit returns the mask bit of b.
func (b Button) Bit() uint32 { return 1 << uint32(b) }

// ParseButton looks a button up by its String form.
func ParseButton(s string) (Button, bool) {
	for i, name := range buttonNames {
		if name == s {
			return Button(i), true
		}
	}
	return 0, false
}

// Buttons yields every logical button in enumeration order.
func Buttons() iter.Seq[Button] {
	return func(yield func(Button) bool) {
		for i := range NumButtons {
			if !yield(Button(i)) {
				return
			}
		}
	}
}

// ButtonsIn yields the buttons whose bit is set in mask, in enumeration order.
func ButtonsIn(mask uint32) iter.Seq[Button] {
	return func(yield func(Button) bool) {
		for i := range NumButtons {
			if mask&(1<<uint32(i)) == 0 {
				continue
			}
			if !yield(Button(i)) {
				return
			}
		}
	}
}

// Axis indexes the four-channel stick array.
type Axis uint8

const (
	LeftStickX Axis = iota
	LeftStickY
	RightStickX
	RightStickY

	NumAxes = int(RightStickY) + 1
)

var axisNames = [NumAxes]string{"left_x", "left_y", "right_x", "right_y"}

func (a Axis) String() string {
	if int(a) < NumAxes {
		return axisNames[a]
	}
	return "axis(" + strconv.Itoa(int(a)) + ")"
}
