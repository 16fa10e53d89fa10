// Package gamepad normalizes controller input from interchangeable backends
// into one fixed-size state model: up to eight slots, each with pressed and
// just-pressed button masks, four calibrated stick axes, a connection flag and
// best-effort dual rumble.
//
// Typical use is one Poll per frame followed by queries:
//
//	pads, err := gamepad.New(backend)
//	...
//	for {
//		pads.Poll()
//		for g := range pads.All() {
//			if g.IsJustPressed(gamepad.ActionDown) {
//				pads.Rumble(g.ID(), 500, 0, 0.8, 0.8)
//			}
//		}
//	}
//
// Gamepads is single-threaded: Poll, queries and Rumble must all be called
// from the same goroutine.
package gamepad

import (
	"errors"
	"iter"
	"time"

	"github.com/rs/zerolog"
)

// Backend adapts one native input source to the Store.
type Backend interface {
	// Ingest applies everything the source produced since the last call.
	Ingest(s *Store)
	// Rumble starts a dual-motor effect on the device in slot id.
	Rumble(id ID, r Rumble) (Playback, error)
	// MagnitudeMax is the native value of a full-strength motor.
	MagnitudeMax() uint32
	Close() error
}

// Gamepads owns a backend and the state it feeds.
type Gamepads struct {
	backend Backend
	store   *Store
	haptics scheduler
	log     zerolog.Logger
	metrics Metrics
}

type Option func(*Gamepads)

func WithLogger(l zerolog.Logger) Option { return func(g *Gamepads) { g.log = l } }

func WithMetrics(m Metrics) Option { return func(g *Gamepads) { g.metrics = m } }

// WithClock replaces time.Now for haptic expiry.
func WithClock(now func() time.Time) Option { return func(g *Gamepads) { g.haptics.now = now } }

// New takes ownership of b. Backend construction is where native subsystems
// start, so a backend that failed to initialize never reaches New.
func New(b Backend, opts ...Option) (*Gamepads, error) {
	if b == nil {
		return nil, errors.New("gamepad: nil backend")
	}
	g := &Gamepads{
		backend: b,
		log:     zerolog.Nop(),
		metrics: nopMetrics{},
		haptics: scheduler{now: time.Now},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.store = NewStore(g.log, g.metrics)
	return g, nil
}

// Poll runs one tick: clears the previous edges and lets the backend ingest.
func (g *Gamepads) Poll() {
	g.store.BeginTick()
	g.backend.Ingest(g.store)
	g.metrics.Connected(g.store.connected())
}

// All yields the connected gamepads as of the last Poll, by ascending ID.
func (g *Gamepads) All() iter.Seq[Gamepad] {
	return func(yield func(Gamepad) bool) {
		for slot := range MaxGamepads {
			st := g.store.State(slot)
			if !st.Connected {
				continue
			}
			if !yield(Gamepad{id: ID(slot), state: st}) {
				return
			}
		}
	}
}

// Get returns the gamepad with the given ID if it is connected.
func (g *Gamepads) Get(id ID) (Gamepad, bool) {
	st := g.store.State(int(id))
	if int(id) >= MaxGamepads || !st.Connected {
		return Gamepad{}, false
	}
	return Gamepad{id: id, state: st}, true
}

// Rumble requests a dual-motor effect of durationMs after startDelayMs.
// Magnitudes are in [0, 1]. Failures are swallowed: haptics are best effort.
func (g *Gamepads) Rumble(id ID, durationMs, startDelayMs uint32, strong, weak float32) {
	if err := g.haptics.submit(g.backend, id, durationMs, startDelayMs, strong, weak); err != nil {
		g.metrics.RumbleDropped()
		g.log.Debug().Err(err).Uint8("id", uint8(id)).Msg("rumble dropped")
		return
	}
	g.metrics.RumblePlayed()
}

// Close releases every playing effect and the backend.
func (g *Gamepads) Close() error {
	g.haptics.releaseAll()
	return g.backend.Close()
}
