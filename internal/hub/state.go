package hub

import (
	"math"
	"slices"

	"github.com/soar/gamepads/gamepad"
)

// PadState is the JSON view of one gamepad slot.
type PadState struct {
	ID          uint8      `json:"id"`
	Connected   bool       `json:"connected"`
	Pressed     []string   `json:"pressed"`
	JustPressed []string   `json:"justPressed"`
	Axes        [4]float32 `json:"axes"`
}

// NewPadState converts a gamepad; a zero Gamepad yields a disconnected slot.
func NewPadState(id gamepad.ID, g gamepad.Gamepad) PadState {
	s := PadState{ID: uint8(id), Connected: g.Connected(), Pressed: []string{}, JustPressed: []string{}}
	if !g.Connected() {
		return s
	}
	s.Axes = g.Axes()
	for b := range g.AllCurrentlyPressed() {
		s.Pressed = append(s.Pressed, b.String())
	}
	for b := range g.AllJustPressed() {
		s.JustPressed = append(s.JustPressed, b.String())
	}
	return s
}

// DeltaChanges carries only the fields that changed.
type DeltaChanges struct {
	Connected   *bool       `json:"connected,omitempty"`
	Pressed     *[]string   `json:"pressed,omitempty"`
	JustPressed *[]string   `json:"justPressed,omitempty"`
	Axes        *[4]float32 `json:"axes,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil && d.Pressed == nil && d.JustPressed == nil && d.Axes == nil
}

const analogThreshold = 0.01

func axesEqual(a, b [4]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) >= analogThreshold {
			return false
		}
	}
	return true
}

// ComputeDelta diffs two views of the same slot. Changed button lists are
// sent whole, so an emptied list still shows up as [].
func ComputeDelta(old, cur PadState) *DeltaChanges {
	d := &DeltaChanges{}
	if old.Connected != cur.Connected {
		d.Connected = &cur.Connected
	}
	if !slices.Equal(old.Pressed, cur.Pressed) {
		d.Pressed = nonNil(cur.Pressed)
	}
	if !slices.Equal(old.JustPressed, cur.JustPressed) {
		d.JustPressed = nonNil(cur.JustPressed)
	}
	if !axesEqual(old.Axes, cur.Axes) {
		d.Axes = &cur.Axes
	}
	return d
}

func nonNil(s []string) *[]string {
	if s == nil {
		s = []string{}
	}
	return &s
}
