package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/gamepads/gamepad"
)

// pressOnce connects slot 0 and holds ActionUp from the second tick on.
type pressOnce struct {
	mu      sync.Mutex
	ticks   int
	rumbles []gamepad.ID
	closed  bool
}

func (p *pressOnce) Ingest(s *gamepad.Store) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticks++
	switch p.ticks {
	case 1:
		s.SetConnected(0, true)
	case 2:
		s.ButtonDown(0, gamepad.ActionUp)
	}
}

func (p *pressOnce) Rumble(id gamepad.ID, _ gamepad.Rumble) (gamepad.Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rumbles = append(p.rumbles, id)
	return nopPlayback{}, nil
}

func (p *pressOnce) MagnitudeMax() uint32 { return 0xFFFF }

func (p *pressOnce) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type nopPlayback struct{}

func (nopPlayback) Close() error { return nil }

func TestRunPublishesChanges(t *testing.T) {
	backend := &pressOnce{}
	r := New(func() (gamepad.Backend, error) { return backend, nil }, time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	first := <-r.Changes()
	require.Len(t, first, 1)
	assert.True(t, first[0].Connected())

	second := <-r.Changes()
	assert.True(t, second[0].IsJustPressed(gamepad.ActionUp))

	third := <-r.Changes()
	assert.False(t, third[0].IsJustPressed(gamepad.ActionUp))
	assert.True(t, third[0].IsCurrentlyPressed(gamepad.ActionUp))

	require.True(t, r.Rumble(RumbleRequest{ID: 0, DurationMs: 10, Strong: 1}))
	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return len(backend.rumbles) == 1
	}, time.Second, time.Millisecond)

	assert.Len(t, r.Current(), 1)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, backend.closed)
	for range r.Changes() {
	}
}

func TestRunOpenFailure(t *testing.T) {
	boom := errors.New("no joystick subsystem")
	r := New(func() (gamepad.Backend, error) { return nil, boom }, time.Millisecond, zerolog.Nop())
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	_, ok := <-r.Changes()
	assert.False(t, ok)
}
