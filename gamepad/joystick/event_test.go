package joystick

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/gamepads/gamepad/eventstream"
)

func encode(e rawEvent) []byte {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint32(b[0:], e.Time)
	binary.LittleEndian.PutUint16(b[4:], uint16(e.Value))
	b[6] = e.Type
	b[7] = e.Number
	return b
}

func TestIoctlRequests(t *testing.T) {
	type testCase struct {
		name string
		got  uintptr
		want uintptr
	}
	cases := []testCase{
		{name: "JSIOCGAXES", got: jsiocgAxes, want: 0x80016a11},
		{name: "JSIOCGBUTTONS", got: jsiocgButton, want: 0x80016a12},
		{name: "JSIOCGNAME(128)", got: jsiocgName, want: 0x80806a13},
		{name: "JSIOCGAXMAP", got: jsiocgAxMap, want: 0x80406a32},
		{name: "JSIOCGBTNMAP", got: jsiocgBtnMap, want: 0x84006a34},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestDecodeEvent(t *testing.T) {
	want := rawEvent{Time: 1234, Value: -32767, Type: typeAxis | typeInit, Number: 3}
	got, err := decodeEvent(encode(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = decodeEvent(make([]byte, 7))
	assert.Error(t, err)
}

func xpad() *device {
	return newDevice("js0", "Xbox Controller",
		[]uint16{0x130, 0x131, 0x133, 0x134, 0x136, 0x137, 0x13a, 0x13b, 0x13c, 0x13d, 0x13e},
		[]uint8{absX, absY, absZ, absRX, absRY, absRZ, absHat0X, absHat0Y},
	)
}

func collect(d *device, evs ...rawEvent) []Event {
	var out []Event
	for _, e := range evs {
		d.translate(e, func(ev Event) { out = append(out, ev) })
	}
	return out
}

func TestTranslateButtons(t *testing.T) {
	d := xpad()
	got := collect(d,
		rawEvent{Type: typeButton, Number: 0, Value: 1},
		rawEvent{Type: typeButton | typeInit, Number: 8, Value: 1},
		rawEvent{Type: typeButton, Number: 0, Value: 0},
		rawEvent{Type: typeButton, Number: 40, Value: 1},
	)
	assert.Equal(t, []Event{
		{Kind: eventstream.ButtonPressed, Device: "js0", Button: eventstream.South},
		{Kind: eventstream.ButtonPressed, Device: "js0", Button: eventstream.Mode},
		{Kind: eventstream.ButtonReleased, Device: "js0", Button: eventstream.South},
	}, got)
}

func TestTranslateSticksInvertY(t *testing.T) {
	d := xpad()
	got := collect(d,
		rawEvent{Type: typeAxis, Number: 0, Value: 32767},
		rawEvent{Type: typeAxis, Number: 1, Value: 32767},
	)
	require.Len(t, got, 2)
	assert.Equal(t, eventstream.LeftStickX, got[0].Axis)
	assert.Equal(t, float32(1), got[0].Value)
	assert.Equal(t, eventstream.LeftStickY, got[1].Axis)
	assert.Equal(t, float32(-1), got[1].Value)
}

func TestTranslateTriggerEdges(t *testing.T) {
	d := xpad()
	got := collect(d,
		rawEvent{Type: typeAxis, Number: 2, Value: -32767},
		rawEvent{Type: typeAxis, Number: 2, Value: 20000},
		rawEvent{Type: typeAxis, Number: 2, Value: 32767},
		rawEvent{Type: typeAxis, Number: 2, Value: -10000},
	)
	assert.Equal(t, []Event{
		{Kind: eventstream.ButtonPressed, Device: "js0", Button: eventstream.LeftTrigger2},
		{Kind: eventstream.ButtonReleased, Device: "js0", Button: eventstream.LeftTrigger2},
	}, got)
}

func TestTranslateHat(t *testing.T) {
	d := xpad()
	got := collect(d,
		rawEvent{Type: typeAxis, Number: 7, Value: -32767},
		rawEvent{Type: typeAxis, Number: 6, Value: 32767},
		rawEvent{Type: typeAxis, Number: 7, Value: 0},
	)
	assert.Equal(t, []Event{
		{Kind: eventstream.ButtonPressed, Device: "js0", Button: eventstream.DPadUp},
		{Kind: eventstream.ButtonPressed, Device: "js0", Button: eventstream.DPadRight},
		{Kind: eventstream.ButtonReleased, Device: "js0", Button: eventstream.DPadUp},
	}, got)
}

func TestIsJoystick(t *testing.T) {
	assert.True(t, isJoystick("js0"))
	assert.True(t, isJoystick("js12"))
	assert.False(t, isJoystick("js"))
	assert.False(t, isJoystick("event3"))
	assert.False(t, isJoystick("jsx"))
}
