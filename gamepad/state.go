package gamepad

import "github.com/rs/zerolog"

// State is the fixed-size per-slot record every backend converges on.
type State struct {
	Connected   bool
	Pressed     uint32
	JustPressed uint32
	Axes        [NumAxes]float32
}

// Store holds the state of every slot. Backends mutate it during Ingest;
// Gamepads clears the edges before each tick. It is not safe for concurrent
// use.
type Store struct {
	states  [MaxGamepads]State
	log     zerolog.Logger
	metrics Metrics
}

// NewStore returns an empty store. A nil metrics sink is allowed.
func NewStore(log zerolog.Logger, m Metrics) *Store {
	if m == nil {
		m = nopMetrics{}
	}
	return &Store{log: log, metrics: m}
}

// Logger is the logger backends should use while ingesting.
func (s *Store) Logger() *zerolog.Logger { return &s.log }

// BeginTick clears every just-pressed mask. Edges recorded after this call
// stay visible until the next BeginTick.
func (s *Store) BeginTick() {
	for i := range s.states {
		s.states[i].JustPressed = 0
	}
}

// SetConnected flags a slot as (dis)connected.
func (s *Store) SetConnected(slot int, connected bool) {
	if !valid(slot) {
		return
	}
	if s.states[slot].Connected != connected {
		s.log.Debug().Int("slot", slot).Bool("connected", connected).Msg("gamepad connection changed")
	}
	s.states[slot].Connected = connected
}

// ButtonDown records a press in both the pressed and just-pressed masks.
func (s *Store) ButtonDown(slot int, b Button) {
	if !valid(slot) || !b.Valid() {
		return
	}
	s.states[slot].Pressed |= b.Bit()
	s.states[slot].JustPressed |= b.Bit()
}

// ButtonUp clears a press. A press and release inside one tick still leaves
// the just-pressed bit set.
func (s *Store) ButtonUp(slot int, b Button) {
	if !valid(slot) || !b.Valid() {
		return
	}
	s.states[slot].Pressed &^= b.Bit()
}

// SetAxis stores an already normalized axis value.
func (s *Store) SetAxis(slot int, a Axis, v float32) {
	if !valid(slot) || int(a) >= NumAxes {
		return
	}
	s.states[slot].Axes[a] = clampUnit(v)
}

// Overwrite replaces a whole slot at once. Snapshot backends derive
// justPressed themselves.
func (s *Store) Overwrite(slot int, connected bool, axes [NumAxes]float32, pressed, justPressed uint32) {
	if !valid(slot) {
		return
	}
	for i := range axes {
		axes[i] = clampUnit(axes[i])
	}
	if s.states[slot].Connected != connected {
		s.log.Debug().Int("slot", slot).Bool("connected", connected).Msg("gamepad connection changed")
	}
	s.states[slot] = State{
		Connected:   connected,
		Pressed:     pressed,
		JustPressed: justPressed,
		Axes:        axes,
	}
}

// State returns a copy of a slot.
func (s *Store) State(slot int) State {
	if !valid(slot) {
		return State{}
	}
	return s.states[slot]
}

// Drop accounts for an input the engine ignores on purpose.
func (s *Store) Drop(reason string) {
	s.metrics.InputDropped(reason)
	s.log.Trace().Str("reason", reason).Msg("input dropped")
}

func (s *Store) connected() int {
	n := 0
	for i := range s.states {
		if s.states[i].Connected {
			n++
		}
	}
	return n
}

func valid(slot int) bool { return slot >= 0 && slot < MaxGamepads }
