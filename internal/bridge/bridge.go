// Package bridge accepts host environments (a browser page, a mobile shell)
// over WebSocket. Hosts push snapshots or raw input frames; the bridge turns
// them into snapshot and raw-input sources and forwards rumble requests back.
package bridge

import (
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/rawinput"
)

// maxQueued bounds the raw-input queue between two ticks.
const maxQueued = 1024

// FrameCounter observes every frame received from a host.
type FrameCounter interface {
	Frame(kind string, ok bool)
}

type nopCounter struct{}

func (nopCounter) Frame(string, bool) {}

// Bridge is safe for concurrent use: hosts write from network goroutines,
// the tick reads whole frames under the lock.
type Bridge struct {
	gws.BuiltinEventHandler

	log      zerolog.Logger
	frames   FrameCounter
	upgrader *gws.Upgrader

	mu       sync.Mutex
	snapshot []byte
	events   []rawinput.Event[uint32]
	hosts    map[*gws.Conn]struct{}
}

func New(log zerolog.Logger, frames FrameCounter) *Bridge {
	if frames == nil {
		frames = nopCounter{}
	}
	b := &Bridge{
		log:    log.With().Str("s", "bridge").Logger(),
		frames: frames,
		hosts:  make(map[*gws.Conn]struct{}),
	}
	b.upgrader = gws.NewUpgrader(b, &gws.ServerOption{
		ReadMaxPayloadSize: 4 * snapshotFrameSize,
		Recovery:           gws.Recovery,
	})
	return b
}

// ServeHTTP upgrades a host connection.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r)
	if err != nil {
		b.log.Warn().Err(err).Msg("host upgrade failed")
		return
	}
	go conn.ReadLoop()
}

func (b *Bridge) OnOpen(c *gws.Conn) {
	b.mu.Lock()
	b.hosts[c] = struct{}{}
	n := len(b.hosts)
	b.mu.Unlock()
	b.log.Info().Str("remote", c.RemoteAddr().String()).Int("hosts", n).Msg("host connected")
}

func (b *Bridge) OnClose(c *gws.Conn, err error) {
	b.mu.Lock()
	delete(b.hosts, c)
	n := len(b.hosts)
	if n == 0 && b.snapshot != nil {
		// nobody is feeding the slots any more
		clear(b.snapshot)
	}
	b.mu.Unlock()
	b.log.Info().Err(err).Int("hosts", n).Msg("host disconnected")
}

func (b *Bridge) OnMessage(c *gws.Conn, m *gws.Message) {
	defer m.Close()
	if m.Opcode != gws.OpcodeBinary {
		b.frames.Frame("text", false)
		return
	}
	b.handle(m.Bytes())
}

// handle applies one frame. The payload is copied; it is not retained.
func (b *Bridge) handle(p []byte) {
	if len(p) == 0 {
		b.frames.Frame("empty", false)
		return
	}
	kind := kindName(p[0])
	switch p[0] {
	case KindSnapshot:
		snap, err := decodeSnapshotFrame(p)
		if err != nil {
			b.frames.Frame(kind, false)
			b.log.Debug().Err(err).Msg("malformed snapshot frame")
			return
		}
		b.mu.Lock()
		if b.snapshot == nil {
			b.snapshot = make([]byte, gamepad.SnapshotSize)
		}
		copy(b.snapshot, snap)
		b.mu.Unlock()

	case KindKey:
		var f KeyFrame
		if err := f.UnmarshalBinary(p); err != nil {
			b.frames.Frame(kind, false)
			return
		}
		ev := rawinput.Event[uint32]{Kind: rawinput.KeyUp, Session: f.Session, Scancode: f.Scancode}
		if f.Pressed {
			ev.Kind = rawinput.KeyDown
		}
		if !b.enqueue(ev) {
			b.frames.Frame(kind, false)
			return
		}

	case KindAxis:
		var f AxisFrame
		if err := f.UnmarshalBinary(p); err != nil {
			b.frames.Frame(kind, false)
			return
		}
		if !b.enqueue(rawinput.Event[uint32]{Kind: rawinput.Motion, Session: f.Session, Values: f.Values}) {
			b.frames.Frame(kind, false)
			return
		}

	default:
		b.frames.Frame(kind, false)
		return
	}
	b.frames.Frame(kind, true)
}

func (b *Bridge) enqueue(ev rawinput.Event[uint32]) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) >= maxQueued {
		return false
	}
	b.events = append(b.events, ev)
	return true
}

func (b *Bridge) sendRumble(handle uint32, r gamepad.Rumble) (gamepad.Playback, error) {
	b.mu.Lock()
	hosts := make([]*gws.Conn, 0, len(b.hosts))
	for c := range b.hosts {
		hosts = append(hosts, c)
	}
	b.mu.Unlock()
	if len(hosts) == 0 {
		return nil, gamepad.ErrNoDevice
	}

	frame, _ := RumbleFrame{
		Handle:     handle,
		DurationMs: millis(r.Duration),
		DelayMs:    millis(r.Delay),
		Strong:     uint16(min(r.Strong, math.MaxUint16)),
		Weak:       uint16(min(r.Weak, math.MaxUint16)),
	}.MarshalBinary()

	var errs []error
	for _, c := range hosts {
		errs = append(errs, c.WriteMessage(gws.OpcodeBinary, frame))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return hostPlayback{}, nil
}

func millis(d time.Duration) uint32 {
	return uint32(min(d.Milliseconds(), math.MaxUint32))
}

// hostPlayback has nothing to release: hosts stop effects on their own
// when the duration runs out.
type hostPlayback struct{}

func (hostPlayback) Close() error { return nil }

// Close disconnects every host.
func (b *Bridge) Close() error {
	b.mu.Lock()
	hosts := b.hosts
	b.hosts = make(map[*gws.Conn]struct{})
	b.mu.Unlock()
	for c := range hosts {
		c.WriteClose(1001, nil)
	}
	return nil
}

// SnapshotSource exposes the latest host snapshot to a snapshot.Adapter.
type SnapshotSource struct{ b *Bridge }

func (b *Bridge) SnapshotSource() *SnapshotSource { return &SnapshotSource{b: b} }

// ReadSnapshot reports every slot disconnected until a host delivers its
// first snapshot.
func (s *SnapshotSource) ReadSnapshot(buf []byte) error {
	if len(buf) < gamepad.SnapshotSize {
		return gamepad.ErrShortBuffer
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if s.b.snapshot == nil {
		clear(buf[:gamepad.SnapshotSize])
		return nil
	}
	copy(buf, s.b.snapshot)
	return nil
}

// Rumble asks every host to play r on the gamepad in slot.
func (s *SnapshotSource) Rumble(slot uint8, r gamepad.Rumble) (gamepad.Playback, error) {
	return s.b.sendRumble(uint32(slot), r)
}

func (s *SnapshotSource) MagnitudeMax() uint32 { return math.MaxUint16 }
func (s *SnapshotSource) Close() error         { return s.b.Close() }

// RawInputSource drains queued host key and motion events.
type RawInputSource struct{ b *Bridge }

func (b *Bridge) RawInputSource() *RawInputSource { return &RawInputSource{b: b} }

func (s *RawInputSource) NextEvent() (rawinput.Event[uint32], bool) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if len(s.b.events) == 0 {
		return rawinput.Event[uint32]{}, false
	}
	ev := s.b.events[0]
	s.b.events = s.b.events[1:]
	if len(s.b.events) == 0 {
		s.b.events = nil
	}
	return ev, true
}

// Rumble asks every host to play r on the device of session.
func (s *RawInputSource) Rumble(session uint32, r gamepad.Rumble) (gamepad.Playback, error) {
	return s.b.sendRumble(session, r)
}

func (s *RawInputSource) MagnitudeMax() uint32 { return math.MaxUint16 }
func (s *RawInputSource) Close() error         { return s.b.Close() }
