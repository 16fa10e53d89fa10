// Package snapshot adapts hosts that expose gamepads as a polled, fixed-layout
// byte buffer rather than as events.
package snapshot

import (
	"github.com/soar/gamepads/gamepad"
)

// Source fills a gamepad.SnapshotSize buffer with the current host state.
type Source interface {
	// ReadSnapshot writes the latest snapshot into buf. An error leaves the
	// previous tick's state in place.
	ReadSnapshot(buf []byte) error
	// Rumble plays an effect on the device the host reports in slot.
	Rumble(slot uint8, r gamepad.Rumble) (gamepad.Playback, error)
	MagnitudeMax() uint32
	Close() error
}

// Adapter derives just-pressed edges by diffing consecutive snapshots.
//
// A button pressed and released between two reads is never seen, and a
// button that is held across a disconnect reports no new edge. Use an
// event-stream source when every edge matters.
type Adapter struct {
	src      Source
	buf      []byte
	previous [gamepad.MaxGamepads]uint32
}

func New(src Source) *Adapter {
	return &Adapter{src: src, buf: make([]byte, gamepad.SnapshotSize)}
}

func (a *Adapter) Ingest(s *gamepad.Store) {
	for slot := range a.previous {
		a.previous[slot] = s.State(slot).Pressed
	}

	if err := a.src.ReadSnapshot(a.buf); err != nil {
		s.Drop(gamepad.DropBadSnapshot)
		s.Logger().Debug().Err(err).Msg("snapshot read failed")
		return
	}
	recs, err := gamepad.DecodeSnapshot(a.buf)
	if err != nil {
		s.Drop(gamepad.DropBadSnapshot)
		s.Logger().Debug().Err(err).Msg("snapshot decode failed")
		return
	}
	for slot, rec := range recs {
		s.Overwrite(slot, rec.Connected, rec.Axes, rec.Pressed, rec.Pressed&^a.previous[slot])
	}
}

// Rumble addresses the host device directly by slot.
func (a *Adapter) Rumble(id gamepad.ID, r gamepad.Rumble) (gamepad.Playback, error) {
	return a.src.Rumble(uint8(id), r)
}

func (a *Adapter) MagnitudeMax() uint32 { return a.src.MagnitudeMax() }

func (a *Adapter) Close() error { return a.src.Close() }
