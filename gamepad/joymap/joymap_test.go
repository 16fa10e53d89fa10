package joymap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soar/gamepads/gamepad/eventstream"
)

func TestLookup(t *testing.T) {
	assert.Same(t, Xbox, Lookup(0x045E, 0x0B12))
	assert.Same(t, PlayStation, Lookup(0x054C, 0x0CE6))
	assert.Same(t, SwitchPro, Lookup(0x057E, 0x2009))
	assert.Same(t, Generic, Lookup(0x1234, 0x5678))
}

func TestPlayStationLayout(t *testing.T) {
	b, ok := PlayStation.Button(5)
	assert.True(t, ok)
	assert.Equal(t, eventstream.Mode, b)

	b, ok = PlayStation.Button(9)
	assert.True(t, ok)
	assert.Equal(t, eventstream.LeftTrigger, b)

	_, ok = PlayStation.Button(15)
	assert.False(t, ok)
}

func TestAxisValues(t *testing.T) {
	am, ok := Xbox.Axis(1)
	assert.True(t, ok)
	assert.Equal(t, eventstream.LeftStickY, am.Target)
	assert.Equal(t, float32(-1), am.StickValue(math.MaxInt16))
	assert.Equal(t, float32(1), am.StickValue(math.MinInt16))

	tr, ok := Xbox.Axis(4)
	assert.True(t, ok)
	assert.Equal(t, eventstream.LeftTrigger2, tr.Trigger)
	assert.Equal(t, float32(0), tr.TriggerValue(math.MinInt16))
	assert.Equal(t, float32(1), tr.TriggerValue(math.MaxInt16))
	assert.InDelta(t, 0.5, tr.TriggerValue(0), 1e-4)

	_, ok = SwitchPro.Axis(4)
	assert.False(t, ok)
}

func TestHatChanges(t *testing.T) {
	type change struct {
		b       eventstream.NativeButton
		pressed bool
	}
	collect := func(prev, cur uint8) []change {
		var out []change
		for b, p := range HatChanges(prev, cur) {
			out = append(out, change{b, p})
		}
		return out
	}

	assert.Empty(t, collect(HatUp, HatUp))
	assert.Equal(t, []change{{eventstream.DPadUp, true}}, collect(0, HatUp))
	assert.Equal(t, []change{
		{eventstream.DPadUp, false},
		{eventstream.DPadDown, true},
		{eventstream.DPadRight, true},
	}, collect(HatUp, HatDown|HatRight))
}

func TestHatFromAxes(t *testing.T) {
	assert.Equal(t, uint8(0), HatFromAxes(0, 0))
	assert.Equal(t, HatUp|HatLeft, HatFromAxes(-32767, -32767))
	assert.Equal(t, HatDown|HatRight, HatFromAxes(32767, 1))
}
