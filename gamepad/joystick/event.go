// Package joystick is an event-stream source reading the Linux joystick
// interface (/dev/input/js*). Devices are discovered at open and hot-plugged
// through inotify; the file descriptors are non-blocking so the source never
// stalls the tick.
package joystick

import (
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/soar/gamepads/gamepad/eventstream"
	"github.com/soar/gamepads/gamepad/joymap"
)

// Buffer sizes the joystick ioctls copy into.
const (
	nameLen   = 128
	absCount  = 64  // ABS_CNT
	btnMapLen = 512 // KEY_MAX - BTN_MISC + 1
)

// ior builds a read ioctl request of the joystick ('j') type.
func ior(nr, size uintptr) uintptr {
	const (
		iocRead   = 2
		sizeShift = 16
		dirShift  = 30
	)
	return iocRead<<dirShift | size<<sizeShift | uintptr('j')<<8 | nr
}

// joystick ioctl requests
var (
	jsiocgAxes   = ior(0x11, 1)
	jsiocgButton = ior(0x12, 1)
	jsiocgName   = ior(0x13, nameLen)
	jsiocgAxMap  = ior(0x32, absCount)
	jsiocgBtnMap = ior(0x34, 2*btnMapLen)
)

// EventSize is the size of struct js_event.
const EventSize = 8

// js_event types
const (
	typeButton uint8 = 0x01
	typeAxis   uint8 = 0x02
	typeInit   uint8 = 0x80
)

// rawEvent mirrors struct js_event.
type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func decodeEvent(b []byte) (rawEvent, error) {
	if len(b) < EventSize {
		return rawEvent{}, io.ErrUnexpectedEOF
	}
	return rawEvent{
		Time:   binary.LittleEndian.Uint32(b[0:]),
		Value:  int16(binary.LittleEndian.Uint16(b[4:])),
		Type:   b[6],
		Number: b[7],
	}, nil
}

// evdev key codes reported by JSIOCGBTNMAP
var buttonCodes = map[uint16]eventstream.NativeButton{
	0x130: eventstream.South,
	0x131: eventstream.East,
	0x132: eventstream.C,
	0x133: eventstream.North,
	0x134: eventstream.West,
	0x135: eventstream.Z,
	0x136: eventstream.LeftTrigger,
	0x137: eventstream.RightTrigger,
	0x138: eventstream.LeftTrigger2,
	0x139: eventstream.RightTrigger2,
	0x13a: eventstream.Select,
	0x13b: eventstream.Start,
	0x13c: eventstream.Mode,
	0x13d: eventstream.LeftThumb,
	0x13e: eventstream.RightThumb,
	0x220: eventstream.DPadUp,
	0x221: eventstream.DPadDown,
	0x222: eventstream.DPadLeft,
	0x223: eventstream.DPadRight,
}

// evdev absolute axis codes reported by JSIOCGAXMAP
const (
	absX     = 0x00
	absY     = 0x01
	absZ     = 0x02
	absRX    = 0x03
	absRY    = 0x04
	absRZ    = 0x05
	absHat0X = 0x10
	absHat0Y = 0x11
)

var axisCodes = map[uint8]joymap.AxisMapping{
	absX:  {Target: eventstream.LeftStickX},
	absY:  {Target: eventstream.LeftStickY, Invert: true},
	absRX: {Target: eventstream.RightStickX},
	absRY: {Target: eventstream.RightStickY, Invert: true},
	absZ:  {Trigger: eventstream.LeftTrigger2, RawMin: -32767, RawMax: 32767},
	absRZ: {Trigger: eventstream.RightTrigger2, RawMin: -32767, RawMax: 32767},
}

type Event = eventstream.Event[string]

// device holds the per-joystick translation state.
type device struct {
	name     string
	model    string
	btnMap   []uint16
	axMap    []uint8
	hatX     int16
	hatY     int16
	triggers map[uint8]bool
}

func newDevice(name, model string, btnMap []uint16, axMap []uint8) *device {
	return &device{name: name, model: model, btnMap: btnMap, axMap: axMap, triggers: make(map[uint8]bool)}
}

// translate turns one js_event into zero or more source events.
func (d *device) translate(e rawEvent, emit func(Event)) {
	switch e.Type &^ typeInit {
	case typeButton:
		if int(e.Number) >= len(d.btnMap) {
			return
		}
		b, ok := buttonCodes[d.btnMap[e.Number]]
		if !ok {
			return
		}
		emit(Event{Kind: buttonKind(e.Value != 0), Device: d.name, Button: b})

	case typeAxis:
		if int(e.Number) >= len(d.axMap) {
			return
		}
		code := d.axMap[e.Number]
		switch code {
		case absHat0X, absHat0Y:
			prev := joymap.HatFromAxes(d.hatX, d.hatY)
			if code == absHat0X {
				d.hatX = e.Value
			} else {
				d.hatY = e.Value
			}
			for b, pressed := range joymap.HatChanges(prev, joymap.HatFromAxes(d.hatX, d.hatY)) {
				emit(Event{Kind: buttonKind(pressed), Device: d.name, Button: b})
			}
			return
		}
		am, ok := axisCodes[code]
		if !ok {
			return
		}
		if am.Trigger != eventstream.Unknown {
			pressed := am.TriggerValue(e.Value) >= joymap.TriggerThreshold
			if pressed == d.triggers[code] {
				return
			}
			d.triggers[code] = pressed
			emit(Event{Kind: buttonKind(pressed), Device: d.name, Button: am.Trigger})
			return
		}
		emit(Event{Kind: eventstream.AxisChanged, Device: d.name, Axis: am.Target, Value: am.StickValue(e.Value)})
	}
}

func buttonKind(pressed bool) eventstream.Kind {
	if pressed {
		return eventstream.ButtonPressed
	}
	return eventstream.ButtonReleased
}

// isJoystick reports whether a /dev/input entry is a joystick node.
func isJoystick(name string) bool {
	n, ok := strings.CutPrefix(name, "js")
	if !ok || n == "" {
		return false
	}
	_, err := strconv.ParseUint(n, 10, 8)
	return err == nil
}
