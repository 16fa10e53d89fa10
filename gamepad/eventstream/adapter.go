package eventstream

import (
	"github.com/soar/gamepads/gamepad"
)

// Adapter turns a Source into a gamepad.Backend. Slots are claimed only by
// Connected events; anything else for an unknown device is dropped.
type Adapter[H comparable] struct {
	src       Source[H]
	slots     gamepad.SlotTable[H]
	deadzones [gamepad.MaxGamepads][gamepad.NumAxes]float32
}

func New[H comparable](src Source[H]) *Adapter[H] {
	return &Adapter[H]{src: src}
}

// Ingest drains the source.
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
	log := s.Logger()

	if ev.Kind == Connected {
		slot, ok := a.slots.FindOrInsert(ev.Device)
		if !ok {
			s.Drop(gamepad.DropSlotsFull)
			log.Warn().Interface("device", ev.Device).Msg("all gamepad slots taken, ignoring device")
			return
		}
		for i, na := range stickAxes {
			dz, _ := a.src.Deadzone(ev.Device, na)
			a.deadzones[slot][i] = gamepad.ClampDeadzone(dz)
		}
		s.SetConnected(slot, true)
		return
	}

	slot, ok := a.slots.Find(ev.Device)
	if !ok {
		s.Drop(gamepad.DropUnknownDevice)
		return
	}

	switch ev.Kind {
	case Disconnected:
		// sources send no releases for a removed device
		s.Overwrite(slot, false, [gamepad.NumAxes]float32{}, 0, 0)
	case ButtonPressed, ButtonReleased:
		b, ok := MapButton(ev.Button)
		if !ok {
			s.Drop(gamepad.DropUnmapped)
			return
		}
		if ev.Kind == ButtonPressed {
			s.ButtonDown(slot, b)
		} else {
			s.ButtonUp(slot, b)
		}
	case AxisChanged:
		ax, ok := MapAxis(ev.Axis)
		if !ok {
			s.Drop(gamepad.DropUnmapped)
			return
		}
		s.SetAxis(slot, ax, gamepad.Normalize(ev.Value, a.deadzones[slot][ax]))
	default:
		s.Drop(gamepad.DropUnmapped)
	}
}

// Rumble resolves the slot back to its native device.
func (a *Adapter[H]) Rumble(id gamepad.ID, r gamepad.Rumble) (gamepad.Playback, error) {
	h, ok := a.slots.Handle(int(id))
	if !ok {
		return nil, gamepad.ErrNoDevice
	}
	return a.src.Rumble(h, r)
}

func (a *Adapter[H]) MagnitudeMax() uint32 { return a.src.MagnitudeMax() }

func (a *Adapter[H]) Close() error { return a.src.Close() }
