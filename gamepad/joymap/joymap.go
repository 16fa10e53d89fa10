// Package joymap maps raw joystick indices (buttons, axes, hats) of common
// controller families onto the event-stream vocabulary.
package joymap

import (
	"iter"
	"math"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/eventstream"
)

// TriggerThreshold is the normalized travel at which an analog trigger
// counts as pressed.
const TriggerThreshold = 0.5

// AxisMapping maps a raw axis index. A mapping with Trigger set reports the
// axis as a digital button instead of a stick channel.
type AxisMapping struct {
	Index   int32
	Target  eventstream.NativeAxis
	Invert  bool
	Trigger eventstream.NativeButton
	// raw range of a trigger axis
	RawMin int16
	RawMax int16
}

type ButtonMapping struct {
	Index  int32
	Target eventstream.NativeButton
}

// DeviceMapping is the full raw layout of one controller family.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool
}

// Button looks up a raw button index.
func (m *DeviceMapping) Button(index int32) (eventstream.NativeButton, bool) {
	for _, bm := range m.Buttons {
		if bm.Index == index {
			return bm.Target, true
		}
	}
	return eventstream.Unknown, false
}

// Axis looks up a raw axis index.
func (m *DeviceMapping) Axis(index int32) (AxisMapping, bool) {
	for _, am := range m.Axes {
		if am.Index == index {
			return am, true
		}
	}
	return AxisMapping{}, false
}

// StickValue converts a raw stick reading to [-1, 1], Y up.
func (am AxisMapping) StickValue(raw int16) float32 {
	v := gamepad.NormalizeRaw(raw)
	if am.Invert {
		v = -v
	}
	return v
}

// TriggerValue converts a raw trigger reading to [0, 1].
func (am AxisMapping) TriggerValue(raw int16) float32 {
	if am.RawMax == am.RawMin {
		return 0
	}
	v := (float64(raw) - float64(am.RawMin)) / (float64(am.RawMax) - float64(am.RawMin))
	return float32(math.Min(1, math.Max(0, v)))
}

// Hat bits as reported by SDL and the Linux joystick API.
const (
	HatUp    uint8 = 0x01
	HatRight uint8 = 0x02
	HatDown  uint8 = 0x04
	HatLeft  uint8 = 0x08
)

var hatButtons = [...]struct {
	bit    uint8
	button eventstream.NativeButton
}{
	{HatUp, eventstream.DPadUp},
	{HatDown, eventstream.DPadDown},
	{HatLeft, eventstream.DPadLeft},
	{HatRight, eventstream.DPadRight},
}

// HatChanges yields the D-pad buttons whose state differs between two hat
// readings, with their new pressed state.
func HatChanges(prev, cur uint8) iter.Seq2[eventstream.NativeButton, bool] {
	return func(yield func(eventstream.NativeButton, bool) bool) {
		for _, hb := range hatButtons {
			was, is := prev&hb.bit != 0, cur&hb.bit != 0
			if was == is {
				continue
			}
			if !yield(hb.button, is) {
				return
			}
		}
	}
}

// HatFromAxes folds a hat reported as two axes (Linux ABS_HAT0X/Y, Y down)
// into hat bits.
func HatFromAxes(x, y int16) uint8 {
	var h uint8
	switch {
	case x < 0:
		h |= HatLeft
	case x > 0:
		h |= HatRight
	}
	switch {
	case y < 0:
		h |= HatUp
	case y > 0:
		h |= HatDown
	}
	return h
}
