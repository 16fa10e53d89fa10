package bridge

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/rawinput"
	"github.com/soar/gamepads/gamepad/snapshot"
)

type countingFrames struct {
	ok, bad map[string]int
}

func newCountingFrames() *countingFrames {
	return &countingFrames{ok: map[string]int{}, bad: map[string]int{}}
}

func (c *countingFrames) Frame(kind string, ok bool) {
	if ok {
		c.ok[kind]++
	} else {
		c.bad[kind]++
	}
}

func TestMalformedFramesAreDropped(t *testing.T) {
	frames := newCountingFrames()
	b := New(zerolog.Nop(), frames)

	b.handle(nil)
	b.handle([]byte{KindKey, 1, 2})
	b.handle([]byte{KindSnapshot, gamepad.LayoutVersion, 0})
	b.handle([]byte{0x7F})

	assert.Equal(t, 1, frames.bad["empty"])
	assert.Equal(t, 1, frames.bad["key"])
	assert.Equal(t, 1, frames.bad["snapshot"])
	assert.Equal(t, 1, frames.bad["unknown"])

	_, ok := b.RawInputSource().NextEvent()
	assert.False(t, ok)
}

type dropCounter struct{ dropped map[string]int }

func (d *dropCounter) InputDropped(reason string) { d.dropped[reason]++ }
func (d *dropCounter) RumbleDropped()             {}
func (d *dropCounter) RumblePlayed()              {}
func (d *dropCounter) Connected(int)              {}

func TestSnapshotBeforeFirstHost(t *testing.T) {
	b := New(zerolog.Nop(), nil)
	buf := make([]byte, gamepad.SnapshotSize)
	buf[0] = 0xFF
	require.NoError(t, b.SnapshotSource().ReadSnapshot(buf))
	assert.Equal(t, make([]byte, gamepad.SnapshotSize), buf)
	assert.ErrorIs(t, b.SnapshotSource().ReadSnapshot(buf[:10]), gamepad.ErrShortBuffer)

	m := &dropCounter{dropped: map[string]int{}}
	pads, err := gamepad.New(snapshot.New(b.SnapshotSource()), gamepad.WithMetrics(m))
	require.NoError(t, err)
	for range 3 {
		pads.Poll()
	}
	assert.Empty(t, m.dropped)
	_, ok := pads.Get(0)
	assert.False(t, ok)
}

func TestRawInputThroughBridge(t *testing.T) {
	b := New(zerolog.Nop(), nil)
	down, _ := KeyFrame{Session: 11, Scancode: rawinput.KeycodeButtonB, Pressed: true}.MarshalBinary()
	motion, _ := AxisFrame{Session: 11, Values: [6]float32{0, -1, 0.5, 0, 0, 0}}.MarshalBinary()
	b.handle(down)
	b.handle(motion)

	pads, err := gamepad.New(rawinput.New[uint32](b.RawInputSource()))
	require.NoError(t, err)
	pads.Poll()

	g, ok := pads.Get(0)
	require.True(t, ok)
	assert.True(t, g.IsJustPressed(gamepad.ActionRight))
	assert.True(t, g.IsCurrentlyPressed(gamepad.DPadUp))
	assert.Equal(t, float32(0.5), g.LeftStickX())
}

func TestSnapshotThroughBridge(t *testing.T) {
	b := New(zerolog.Nop(), nil)
	var recs [gamepad.MaxGamepads]gamepad.Record
	recs[1] = gamepad.Record{Connected: true, Pressed: gamepad.Mode.Bit()}
	b.handle(EncodeSnapshotFrame(gamepad.EncodeSnapshot(recs)))

	pads, err := gamepad.New(snapshot.New(b.SnapshotSource()))
	require.NoError(t, err)
	pads.Poll()

	g, ok := pads.Get(1)
	require.True(t, ok)
	assert.True(t, g.IsJustPressed(gamepad.Mode))

	err = b.SnapshotSource().ReadSnapshot(make([]byte, 10))
	assert.ErrorIs(t, err, gamepad.ErrShortBuffer)
}

func TestQueueIsBounded(t *testing.T) {
	frames := newCountingFrames()
	b := New(zerolog.Nop(), frames)
	key, _ := KeyFrame{Session: 1, Scancode: 96, Pressed: true}.MarshalBinary()
	for range maxQueued + 5 {
		b.handle(key)
	}
	assert.Equal(t, maxQueued, frames.ok["key"])
	assert.Equal(t, 5, frames.bad["key"])
}

type hostClient struct {
	gws.BuiltinEventHandler
	frames chan []byte
}

func (h *hostClient) OnMessage(_ *gws.Conn, m *gws.Message) {
	defer m.Close()
	h.frames <- append([]byte(nil), m.Bytes()...)
}

func TestHostRoundTrip(t *testing.T) {
	b := New(zerolog.Nop(), nil)
	srv := httptest.NewServer(b)
	defer srv.Close()

	host := &hostClient{frames: make(chan []byte, 4)}
	conn, _, err := gws.NewClient(host, &gws.ClientOption{Addr: "ws" + strings.TrimPrefix(srv.URL, "http")})
	require.NoError(t, err)
	go conn.ReadLoop()
	defer conn.WriteClose(1000, nil)

	var recs [gamepad.MaxGamepads]gamepad.Record
	recs[0] = gamepad.Record{Connected: true, Axes: [gamepad.NumAxes]float32{0, 1, 0, 0}}
	require.NoError(t, conn.WriteMessage(gws.OpcodeBinary, EncodeSnapshotFrame(gamepad.EncodeSnapshot(recs))))

	src := b.SnapshotSource()
	buf := make([]byte, gamepad.SnapshotSize)
	require.Eventually(t, func() bool { return src.ReadSnapshot(buf) == nil }, 2*time.Second, 10*time.Millisecond)

	got, err := gamepad.DecodeSnapshot(buf)
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	_, err = src.Rumble(0, gamepad.Rumble{Strong: 0xFFFF, Weak: 1, Duration: 250 * time.Millisecond})
	require.NoError(t, err)

	select {
	case p := <-host.frames:
		var f RumbleFrame
		require.NoError(t, f.UnmarshalBinary(p))
		assert.Equal(t, RumbleFrame{Handle: 0, DurationMs: 250, Strong: 0xFFFF, Weak: 1}, f)
	case <-time.After(2 * time.Second):
		t.Fatal("no rumble frame received")
	}
}

func TestRumbleWithoutHost(t *testing.T) {
	b := New(zerolog.Nop(), nil)
	_, err := b.RawInputSource().Rumble(1, gamepad.Rumble{})
	assert.ErrorIs(t, err, gamepad.ErrNoDevice)
}
