package joymap

import (
	"github.com/soar/gamepads/gamepad/eventstream"
)

var stickAxes = []AxisMapping{
	{Index: 0, Target: eventstream.LeftStickX},
	{Index: 1, Target: eventstream.LeftStickY, Invert: true},
	{Index: 2, Target: eventstream.RightStickX},
	{Index: 3, Target: eventstream.RightStickY, Invert: true},
}

var triggerAxes = []AxisMapping{
	{Index: 4, Trigger: eventstream.LeftTrigger2, RawMin: -32768, RawMax: 32767},
	{Index: 5, Trigger: eventstream.RightTrigger2, RawMin: -32768, RawMax: 32767},
}

var xinputButtons = []ButtonMapping{
	{Index: 0, Target: eventstream.South},
	{Index: 1, Target: eventstream.East},
	{Index: 2, Target: eventstream.West},
	{Index: 3, Target: eventstream.North},
	{Index: 4, Target: eventstream.LeftTrigger},
	{Index: 5, Target: eventstream.RightTrigger},
	{Index: 6, Target: eventstream.Select},
	{Index: 7, Target: eventstream.Start},
	{Index: 8, Target: eventstream.LeftThumb},
	{Index: 9, Target: eventstream.RightThumb},
	{Index: 10, Target: eventstream.Mode},
}

var Xbox = &DeviceMapping{
	Name:    "xbox",
	Axes:    append(append([]AxisMapping{}, stickAxes...), triggerAxes...),
	Buttons: xinputButtons,
	HasHat:  true,
}

var PlayStation = &DeviceMapping{
	Name: "playstation",
	Axes: append(append([]AxisMapping{}, stickAxes...), triggerAxes...),
	Buttons: []ButtonMapping{
		{Index: 0, Target: eventstream.South}, // cross
		{Index: 1, Target: eventstream.East},  // circle
		{Index: 2, Target: eventstream.West},  // square
		{Index: 3, Target: eventstream.North}, // triangle
		{Index: 4, Target: eventstream.Select},
		{Index: 5, Target: eventstream.Mode},
		{Index: 6, Target: eventstream.Start},
		{Index: 7, Target: eventstream.LeftThumb},
		{Index: 8, Target: eventstream.RightThumb},
		{Index: 9, Target: eventstream.LeftTrigger},
		{Index: 10, Target: eventstream.RightTrigger},
	},
	HasHat: true,
}

// SwitchPro has digital ZL/ZR and no trigger axes.
var SwitchPro = &DeviceMapping{
	Name:    "switch_pro",
	Axes:    stickAxes,
	Buttons: xinputButtons,
	HasHat:  true,
}

var Generic = &DeviceMapping{
	Name:    "generic",
	Axes:    append(append([]AxisMapping{}, stickAxes...), triggerAxes...),
	Buttons: xinputButtons,
	HasHat:  true,
}

type deviceKey struct {
	vendor, product uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft
	{0x045E, 0x028E}: Xbox, // Xbox 360
	{0x045E, 0x02FF}: Xbox, // Xbox One
	{0x045E, 0x0B12}: Xbox, // Xbox Series X|S
	{0x045E, 0x0B13}: Xbox, // Xbox Series X|S wireless
	// Sony
	{0x054C, 0x0CE6}: PlayStation, // DualSense
	{0x054C, 0x09CC}: PlayStation, // DualShock 4 v2
	{0x054C, 0x05C4}: PlayStation, // DualShock 4 v1
	// Nintendo
	{0x057E, 0x2009}: SwitchPro,
}

// Lookup returns the mapping for a vendor/product pair, falling back to
// Generic.
func Lookup(vendor, product uint16) *DeviceMapping {
	if m, ok := knownDevices[deviceKey{vendor, product}]; ok {
		return m
	}
	return Generic
}
