// Package sdl is an event-stream source backed by the SDL3 joystick API,
// loaded at runtime through purego. All calls must happen on the thread that
// called Open.
package sdl

import (
	"errors"
	"fmt"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/rs/zerolog"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/eventstream"
	"github.com/soar/gamepads/gamepad/joymap"
	"github.com/soar/gamepads/gamepad/motor"
)

type Event = eventstream.Event[sdl.JoystickID]

type joystick struct {
	js      *sdl.Joystick
	mapping *joymap.DeviceMapping
	name    string
	hat     uint8
	// triggers holds the last digital state of each trigger axis
	triggers map[int32]bool
}

// Source reads SDL joystick events.
type Source struct {
	log       zerolog.Logger
	deadzone  float32
	joysticks map[sdl.JoystickID]*joystick
	pending   []Event
	rumbles   *motor.Scheduler[sdl.JoystickID]
}

// Open initializes the SDL joystick subsystem and queues a Connected event
// for every joystick already plugged in.
func Open(deadzone float32, log zerolog.Logger) (*Source, error) {
	if !sdl.Init(sdl.InitJoystick) {
		return nil, fmt.Errorf("sdl: init joystick: %s", sdl.GetError())
	}
	log.Info().Msg("SDL3 joystick subsystem initialized")

	s := &Source{
		log:       log,
		deadzone:  gamepad.ClampDeadzone(deadzone),
		joysticks: make(map[sdl.JoystickID]*joystick),
	}
	s.rumbles = motor.New[sdl.JoystickID](motors{s}, time.Now)
	for _, id := range sdl.GetJoysticks() {
		s.open(id)
	}
	return s, nil
}

// NextEvent pumps SDL until it produces a translated event or runs dry.
func (s *Source) NextEvent() (Event, bool) {
	if len(s.pending) == 0 {
		if err := s.rumbles.StartDue(); err != nil {
			s.log.Debug().Err(err).Msg("delayed rumble failed")
		}
		var ev sdl.Event
		for len(s.pending) == 0 && sdl.PollEvent(&ev) {
			s.translate(&ev)
		}
	}
	if len(s.pending) == 0 {
		return Event{}, false
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, true
}

func (s *Source) emit(ev Event) { s.pending = append(s.pending, ev) }

func (s *Source) translate(ev *sdl.Event) {
	switch ev.Type() {
	case sdl.EventJoystickAdded:
		s.open(ev.JDevice().Which)

	case sdl.EventJoystickRemoved:
		s.remove(ev.JDevice().Which)

	case sdl.EventJoystickButtonDown, sdl.EventJoystickButtonUp:
		be := ev.JButton()
		j, ok := s.joysticks[be.Which]
		if !ok {
			return
		}
		b, ok := j.mapping.Button(int32(be.Button))
		if !ok {
			s.log.Trace().Uint8("button", be.Button).Str("mapping", j.mapping.Name).Msg("unmapped joystick button")
			return
		}
		kind := eventstream.ButtonReleased
		if ev.Type() == sdl.EventJoystickButtonDown {
			kind = eventstream.ButtonPressed
		}
		s.emit(Event{Kind: kind, Device: be.Which, Button: b})

	case sdl.EventJoystickAxisMotion:
		ae := ev.JAxis()
		j, ok := s.joysticks[ae.Which]
		if !ok {
			return
		}
		am, ok := j.mapping.Axis(int32(ae.Axis))
		if !ok {
			return
		}
		if am.Trigger != eventstream.Unknown {
			pressed := am.TriggerValue(ae.Value) >= joymap.TriggerThreshold
			if pressed == j.triggers[am.Index] {
				return
			}
			j.triggers[am.Index] = pressed
			kind := eventstream.ButtonReleased
			if pressed {
				kind = eventstream.ButtonPressed
			}
			s.emit(Event{Kind: kind, Device: ae.Which, Button: am.Trigger})
			return
		}
		s.emit(Event{Kind: eventstream.AxisChanged, Device: ae.Which, Axis: am.Target, Value: am.StickValue(ae.Value)})

	case sdl.EventJoystickHatMotion:
		he := ev.JHat()
		j, ok := s.joysticks[he.Which]
		if !ok || he.Hat != 0 || !j.mapping.HasHat {
			return
		}
		for b, pressed := range joymap.HatChanges(j.hat, he.Value) {
			kind := eventstream.ButtonReleased
			if pressed {
				kind = eventstream.ButtonPressed
			}
			s.emit(Event{Kind: kind, Device: he.Which, Button: b})
		}
		j.hat = he.Value
	}
}

func (s *Source) open(id sdl.JoystickID) {
	if _, exists := s.joysticks[id]; exists {
		return
	}
	js := sdl.OpenJoystick(id)
	if js == nil {
		s.log.Warn().Uint32("id", uint32(id)).Str("err", sdl.GetError()).Msg("failed to open joystick")
		return
	}

	vendor := sdl.GetJoystickVendor(js)
	product := sdl.GetJoystickProduct(js)
	j := &joystick{
		js:       js,
		mapping:  joymap.Lookup(vendor, product),
		name:     sdl.GetJoystickName(js),
		triggers: make(map[int32]bool),
	}
	s.joysticks[id] = j

	s.log.Info().
		Str("name", j.name).
		Str("vid", fmt.Sprintf("%04X", vendor)).
		Str("pid", fmt.Sprintf("%04X", product)).
		Str("mapping", j.mapping.Name).
		Int32("axes", sdl.GetNumJoystickAxes(js)).
		Int32("buttons", sdl.GetNumJoystickButtons(js)).
		Int32("hats", sdl.GetNumJoystickHats(js)).
		Msg("joystick connected")

	s.emit(Event{Kind: eventstream.Connected, Device: id})
}

func (s *Source) remove(id sdl.JoystickID) {
	j, exists := s.joysticks[id]
	if !exists {
		return
	}
	s.log.Info().Str("name", j.name).Msg("joystick disconnected")
	sdl.CloseJoystick(j.js)
	delete(s.joysticks, id)
	s.rumbles.Forget(id)
	s.emit(Event{Kind: eventstream.Disconnected, Device: id})
}

// Deadzone reports the configured deadzone; SDL exposes no per-device
// calibration.
func (s *Source) Deadzone(id sdl.JoystickID, _ eventstream.NativeAxis) (float32, bool) {
	if _, ok := s.joysticks[id]; !ok {
		return 0, false
	}
	return s.deadzone, true
}

func (s *Source) MagnitudeMax() uint32 { return 0xFFFF }

// Rumble starts r now, or queues it until its delay has passed. Queued
// effects start on a later NextEvent call.
func (s *Source) Rumble(id sdl.JoystickID, r gamepad.Rumble) (gamepad.Playback, error) {
	if _, ok := s.joysticks[id]; !ok {
		return nil, gamepad.ErrNoDevice
	}
	return s.rumbles.Play(id, r)
}

// motors drives SDL rumble for the scheduler.
type motors struct{ s *Source }

func (m motors) Start(id sdl.JoystickID, r gamepad.Rumble) error {
	j, ok := m.s.joysticks[id]
	if !ok {
		return gamepad.ErrNoDevice
	}
	if !sdl.RumbleJoystick(j.js, uint16(r.Strong), uint16(r.Weak), uint32(r.Duration.Milliseconds())) {
		return fmt.Errorf("sdl: rumble %s: %s: %w", j.name, sdl.GetError(), gamepad.ErrUnsupported)
	}
	return nil
}

func (m motors) Stop(id sdl.JoystickID) error {
	j, ok := m.s.joysticks[id]
	if !ok {
		return nil
	}
	if !sdl.RumbleJoystick(j.js, 0, 0, 0) {
		return errors.New("sdl: stop rumble: " + sdl.GetError())
	}
	return nil
}

// Close releases every joystick and shuts SDL down.
func (s *Source) Close() error {
	for id, j := range s.joysticks {
		sdl.CloseJoystick(j.js)
		delete(s.joysticks, id)
	}
	s.rumbles.Reset()
	sdl.Quit()
	return nil
}
