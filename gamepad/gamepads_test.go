package gamepad

import (
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend applies one queued step per Ingest.
type scriptedBackend struct {
	steps   []func(*Store)
	rumbles []Rumble
	failing bool
	closed  int
	played  []*fakePlayback
}

func (b *scriptedBackend) Ingest(s *Store) {
	if len(b.steps) == 0 {
		return
	}
	step := b.steps[0]
	b.steps = b.steps[1:]
	if step != nil {
		step(s)
	}
}

func (b *scriptedBackend) Rumble(id ID, r Rumble) (Playback, error) {
	if b.failing {
		return nil, ErrUnsupported
	}
	b.rumbles = append(b.rumbles, r)
	p := &fakePlayback{}
	b.played = append(b.played, p)
	return p, nil
}

func (b *scriptedBackend) MagnitudeMax() uint32 { return 0xFFFF }

func (b *scriptedBackend) Close() error {
	b.closed++
	return nil
}

type fakePlayback struct{ closed int }

func (p *fakePlayback) Close() error {
	p.closed++
	return nil
}

func newPads(t *testing.T, b Backend, opts ...Option) *Gamepads {
	t.Helper()
	pads, err := New(b, opts...)
	require.NoError(t, err)
	return pads
}

func TestNewRejectsNilBackend(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestEndToEnd(t *testing.T) {
	b := &scriptedBackend{steps: []func(*Store){
		func(s *Store) { s.SetConnected(0, true) },
		func(s *Store) { s.ButtonDown(0, ActionDown) },
		nil,
		func(s *Store) { s.ButtonUp(0, ActionDown) },
	}}
	pads := newPads(t, b)

	pads.Poll()
	all := slices.Collect(pads.All())
	require.Len(t, all, 1)
	g := all[0]
	assert.Equal(t, ID(0), g.ID())
	assert.Equal(t, [NumAxes]float32{}, g.Axes())
	assert.Empty(t, slices.Collect(g.AllCurrentlyPressed()))

	pads.Poll()
	g, ok := pads.Get(0)
	require.True(t, ok)
	assert.True(t, g.IsJustPressed(ActionDown))
	assert.True(t, g.IsCurrentlyPressed(ActionDown))

	pads.Poll()
	g, _ = pads.Get(0)
	assert.False(t, g.IsJustPressed(ActionDown))
	assert.True(t, g.IsCurrentlyPressed(ActionDown))

	pads.Poll()
	g, _ = pads.Get(0)
	assert.False(t, g.IsJustPressed(ActionDown))
	assert.False(t, g.IsCurrentlyPressed(ActionDown))
}

func TestPressAndReleaseWithinOneTick(t *testing.T) {
	b := &scriptedBackend{steps: []func(*Store){
		func(s *Store) {
			s.SetConnected(2, true)
			s.ButtonDown(2, DPadLeft)
			s.ButtonUp(2, DPadLeft)
		},
		nil,
	}}
	pads := newPads(t, b)

	pads.Poll()
	g, ok := pads.Get(2)
	require.True(t, ok)
	assert.True(t, g.IsJustPressed(DPadLeft))
	assert.False(t, g.IsCurrentlyPressed(DPadLeft))
	assert.Equal(t, []Button{DPadLeft}, slices.Collect(g.AllJustPressed()))

	pads.Poll()
	g, _ = pads.Get(2)
	assert.False(t, g.IsJustPressed(DPadLeft))
}

func TestQueriesAreIdempotent(t *testing.T) {
	b := &scriptedBackend{steps: []func(*Store){
		func(s *Store) {
			s.SetConnected(1, true)
			s.ButtonDown(1, Mode)
			s.ButtonDown(1, FrontRightLower)
			s.SetAxis(1, LeftStickY, 0.5)
		},
	}}
	pads := newPads(t, b)
	pads.Poll()

	first := slices.Collect(pads.All())
	second := slices.Collect(pads.All())
	assert.Equal(t, first, second)

	g1, _ := pads.Get(1)
	g2, _ := pads.Get(1)
	assert.Equal(t, g1, g2)
	assert.Equal(t, slices.Collect(g1.AllCurrentlyPressed()), slices.Collect(g1.AllCurrentlyPressed()))
	assert.Equal(t, []Button{FrontRightLower, Mode}, slices.Collect(g1.AllJustPressed()))
	assert.Equal(t, float32(0.5), g1.LeftStickY())
}

func TestDisconnectedIsNotListed(t *testing.T) {
	b := &scriptedBackend{steps: []func(*Store){
		func(s *Store) {
			s.SetConnected(0, true)
			s.SetConnected(1, true)
		},
		func(s *Store) { s.SetConnected(0, false) },
	}}
	pads := newPads(t, b)

	pads.Poll()
	assert.Len(t, slices.Collect(pads.All()), 2)

	pads.Poll()
	all := slices.Collect(pads.All())
	require.Len(t, all, 1)
	assert.Equal(t, ID(1), all[0].ID())
	_, ok := pads.Get(0)
	assert.False(t, ok)
	_, ok = pads.Get(MaxGamepads)
	assert.False(t, ok)
}

func TestHapticExpiry(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	b := &scriptedBackend{}
	pads := newPads(t, b, WithClock(func() time.Time { return now }))

	pads.Rumble(0, 500, 0, 1, 0.5)
	require.Len(t, pads.haptics.live, 1)
	assert.Equal(t, Rumble{
		Strong:    0xFFFF,
		Weak:      0x8000,
		Duration:  500 * time.Millisecond,
		RepeatFor: 500 * time.Millisecond,
	}, b.rumbles[0])

	now = start.Add(499 * time.Millisecond)
	pads.Rumble(1, 100, 0, 0, 0)
	assert.Len(t, pads.haptics.live, 2)
	assert.Zero(t, b.played[0].closed)

	now = start.Add(500 * time.Millisecond)
	pads.Rumble(1, 100, 0, 0, 0)
	assert.Len(t, pads.haptics.live, 2, "first effect purged, third added")
	assert.Equal(t, 1, b.played[0].closed)
	assert.Zero(t, b.played[1].closed)
}

func TestHapticExpiryIncludesDelay(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	b := &scriptedBackend{}
	pads := newPads(t, b, WithClock(func() time.Time { return now }))

	pads.Rumble(0, 200, 300, 0.25, 0.75)
	assert.Equal(t, 500*time.Millisecond, b.rumbles[0].RepeatFor)
	assert.Equal(t, 300*time.Millisecond, b.rumbles[0].Delay)

	now = start.Add(499 * time.Millisecond)
	pads.Rumble(0, 1, 0, 0, 0)
	assert.Zero(t, b.played[0].closed)

	now = start.Add(time.Second)
	pads.Rumble(0, 1, 0, 0, 0)
	assert.Equal(t, 1, b.played[0].closed)
}

func TestRumbleFailureIsSwallowed(t *testing.T) {
	b := &scriptedBackend{failing: true}
	pads := newPads(t, b)

	pads.Rumble(0, 100, 0, 1, 1)
	assert.Empty(t, pads.haptics.live)

	b.failing = false
	pads.Rumble(MaxGamepads, 100, 0, 1, 1)
	assert.Empty(t, pads.haptics.live)
	assert.Empty(t, b.rumbles)
}

func TestCloseReleasesEffects(t *testing.T) {
	b := &scriptedBackend{}
	pads := newPads(t, b)
	pads.Rumble(0, 10_000, 0, 1, 1)

	require.NoError(t, pads.Close())
	assert.Equal(t, 1, b.closed)
	assert.Equal(t, 1, b.played[0].closed)
	assert.Empty(t, pads.haptics.live)
}

func TestScaleMagnitude(t *testing.T) {
	type testCase struct {
		m    float32
		max  uint32
		want uint32
	}
	cases := []testCase{
		{m: 0, max: 255, want: 0},
		{m: 1, max: 255, want: 255},
		{m: 0.5, max: 255, want: 128},
		{m: 0.1, max: 255, want: 26},
		{m: 0.8, max: 0xFFFF, want: 52428},
		{m: -1, max: 255, want: 0},
		{m: 2, max: 255, want: 255},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ScaleMagnitude(tc.m, tc.max), "m=%v max=%v", tc.m, tc.max)
	}
}

type countingMetrics struct {
	dropped   map[string]int
	rumbles   int
	failed    int
	connected int
}

func (m *countingMetrics) InputDropped(reason string) { m.dropped[reason]++ }
func (m *countingMetrics) RumbleDropped()             { m.failed++ }
func (m *countingMetrics) RumblePlayed()              { m.rumbles++ }
func (m *countingMetrics) Connected(n int)            { m.connected = n }

func TestMetrics(t *testing.T) {
	m := &countingMetrics{dropped: map[string]int{}}
	b := &scriptedBackend{steps: []func(*Store){
		func(s *Store) {
			s.SetConnected(0, true)
			s.SetConnected(3, true)
			s.Drop(DropUnmapped)
		},
	}}
	pads := newPads(t, b, WithMetrics(m))
	pads.Poll()
	pads.Rumble(0, 10, 0, 1, 1)
	b.failing = true
	pads.Rumble(0, 10, 0, 1, 1)

	assert.Equal(t, 2, m.connected)
	assert.Equal(t, 1, m.dropped[DropUnmapped])
	assert.Equal(t, 1, m.rumbles)
	assert.Equal(t, 1, m.failed)
}

func TestStoreIgnoresOutOfRange(t *testing.T) {
	s := NewStore(zerolog.Nop(), nil)
	s.ButtonDown(-1, ActionDown)
	s.ButtonDown(MaxGamepads, ActionDown)
	s.ButtonDown(0, Button(NumButtons))
	s.SetAxis(0, Axis(NumAxes), 1)
	s.SetConnected(99, true)
	assert.Equal(t, State{}, s.State(0))
	assert.Equal(t, State{}, s.State(99))
}
