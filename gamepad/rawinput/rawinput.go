// Package rawinput adapts windowing systems that report gamepads as keyboard
// style key events plus a generic six-value motion event, as mobile
// platforms do.
package rawinput

import (
	"github.com/soar/gamepads/gamepad"
)

type Kind uint8

const (
	KeyDown Kind = iota + 1
	KeyUp
	Motion
)

// Event is one raw input event for the device session H. Scancode is set for
// key events, Values for Motion: hat X, hat Y, left X, left Y, right X,
// right Y.
type Event[H comparable] struct {
	Kind     Kind
	Session  H
	Scancode uint32
	Values   [6]float32
}

// Source delivers raw input events in order.
type Source[H comparable] interface {
	NextEvent() (Event[H], bool)
	Rumble(h H, r gamepad.Rumble) (gamepad.Playback, error)
	MagnitudeMax() uint32
	Close() error
}

// Android key codes.
const (
	KeycodeDPadUp       = 19
	KeycodeDPadDown     = 20
	KeycodeDPadLeft     = 21
	KeycodeDPadRight    = 22
	KeycodeButtonA      = 96
	KeycodeButtonB      = 97
	KeycodeButtonX      = 99
	KeycodeButtonY      = 100
	KeycodeButtonL1     = 102
	KeycodeButtonR1     = 103
	KeycodeButtonL2     = 104
	KeycodeButtonR2     = 105
	KeycodeButtonThumbL = 106
	KeycodeButtonThumbR = 107
	KeycodeButtonStart  = 108
	KeycodeButtonSelect = 109
)

var keycodes = map[uint32]gamepad.Button{
	KeycodeDPadUp:       gamepad.DPadUp,
	KeycodeDPadDown:     gamepad.DPadDown,
	KeycodeDPadLeft:     gamepad.DPadLeft,
	KeycodeDPadRight:    gamepad.DPadRight,
	KeycodeButtonA:      gamepad.ActionDown,
	KeycodeButtonB:      gamepad.ActionRight,
	KeycodeButtonX:      gamepad.ActionLeft,
	KeycodeButtonY:      gamepad.ActionUp,
	KeycodeButtonL1:     gamepad.FrontLeftUpper,
	KeycodeButtonR1:     gamepad.FrontRightUpper,
	KeycodeButtonL2:     gamepad.FrontLeftLower,
	KeycodeButtonR2:     gamepad.FrontRightLower,
	KeycodeButtonThumbL: gamepad.LeftStick,
	KeycodeButtonThumbR: gamepad.RightStick,
	KeycodeButtonStart:  gamepad.RightCenterCluster,
	KeycodeButtonSelect: gamepad.LeftCenterCluster,
}

// MapKeycode translates a scancode; codes outside the table are ignored.
func MapKeycode(code uint32) (gamepad.Button, bool) {
	b, ok := keycodes[code]
	return b, ok
}

// Adapter turns a raw-input Source into a gamepad.Backend. A session is
// connected from the first event seen for it.
type Adapter[H comparable] struct {
	src   Source[H]
	slots gamepad.SlotTable[H]
}

func New[H comparable](src Source[H]) *Adapter[H] {
	return &Adapter[H]{src: src}
}

func (a *Adapter[H]) Ingest(s *gamepad.Store) {
	for {
		ev, ok := a.src.NextEvent()
		if !ok {
			return
		}
		a.apply(s, ev)
	}
}

func (a *Adapter[H]) apply(s *gamepad.Store, ev Event[H]) {
	slot, ok := a.slots.FindOrInsert(ev.Session)
	if !ok {
		s.Drop(gamepad.DropSlotsFull)
		return
	}
	if !s.State(slot).Connected {
		s.SetConnected(slot, true)
	}

	switch ev.Kind {
	case KeyDown, KeyUp:
		b, ok := MapKeycode(ev.Scancode)
		if !ok {
			s.Drop(gamepad.DropUnmapped)
			return
		}
		if ev.Kind == KeyDown {
			s.ButtonDown(slot, b)
		} else {
			s.ButtonUp(slot, b)
		}
	case Motion:
		hat(s, slot, ev.Values[0], gamepad.DPadLeft, gamepad.DPadRight)
		hat(s, slot, ev.Values[1], gamepad.DPadUp, gamepad.DPadDown)
		for i := range gamepad.NumAxes {
			s.SetAxis(slot, gamepad.Axis(i), ev.Values[2+i])
		}
	default:
		s.Drop(gamepad.DropUnmapped)
	}
}

// hat drives a pair of D-pad buttons from one hat axis. A direction that is
// already held does not produce a new edge.
func hat(s *gamepad.Store, slot int, v float32, neg, pos gamepad.Button) {
	pressed := s.State(slot).Pressed
	set := func(b gamepad.Button, on bool) {
		held := pressed&b.Bit() != 0
		switch {
		case on && !held:
			s.ButtonDown(slot, b)
		case !on && held:
			s.ButtonUp(slot, b)
		}
	}
	set(neg, v < 0)
	set(pos, v > 0)
}

func (a *Adapter[H]) Rumble(id gamepad.ID, r gamepad.Rumble) (gamepad.Playback, error) {
	h, ok := a.slots.Handle(int(id))
	if !ok {
		return nil, gamepad.ErrNoDevice
	}
	return a.src.Rumble(h, r)
}

func (a *Adapter[H]) MagnitudeMax() uint32 { return a.src.MagnitudeMax() }

func (a *Adapter[H]) Close() error { return a.src.Close() }
