// Package runner owns the Gamepads instance and drives it at a fixed tick on
// one locked OS thread. Everything else talks to it through channels.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/soar/gamepads/gamepad"
)

// OpenFunc creates the backend. It runs on the tick thread, since native
// subsystems such as SDL must be polled from the thread that initialized
// them.
type OpenFunc func() (gamepad.Backend, error)

// RumbleRequest is a rumble call queued for the tick thread.
type RumbleRequest struct {
	ID           gamepad.ID `json:"id"`
	DurationMs   uint32     `json:"durationMs"`
	StartDelayMs uint32     `json:"startDelayMs"`
	Strong       float32    `json:"strong"`
	Weak         float32    `json:"weak"`
}

type Runner struct {
	open     OpenFunc
	opts     []gamepad.Option
	interval time.Duration
	log      zerolog.Logger

	changes chan []gamepad.Gamepad
	rumbles chan RumbleRequest

	mu      sync.RWMutex
	current []gamepad.Gamepad
}

func New(open OpenFunc, interval time.Duration, log zerolog.Logger, opts ...gamepad.Option) *Runner {
	return &Runner{
		open:     open,
		opts:     opts,
		interval: interval,
		log:      log,
		changes:  make(chan []gamepad.Gamepad, 64),
		rumbles:  make(chan RumbleRequest, 16),
	}
}

// Changes delivers the connected gamepads after every tick that changed
// them. It is closed when Run returns.
func (r *Runner) Changes() <-chan []gamepad.Gamepad { return r.changes }

// Current returns the gamepads as of the last tick.
func (r *Runner) Current() []gamepad.Gamepad {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.current)
}

// Rumble queues a request for the next tick. It reports false when the
// queue is full.
func (r *Runner) Rumble(req RumbleRequest) bool {
	select {
	case r.rumbles <- req:
		return true
	default:
		return false
	}
}

// Run opens the backend and ticks until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.changes)

	backend, err := r.open()
	if err != nil {
		return fmt.Errorf("runner: open backend: %w", err)
	}
	pads, err := gamepad.New(backend, r.opts...)
	if err != nil {
		_ = backend.Close()
		return fmt.Errorf("runner: %w", err)
	}
	defer func() {
		if err := pads.Close(); err != nil {
			r.log.Warn().Err(err).Msg("backend close failed")
		}
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var prev []gamepad.Gamepad
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		r.drainRumbles(pads)
		pads.Poll()

		cur := slices.Collect(pads.All())
		if slices.Equal(prev, cur) {
			continue
		}
		prev = cur

		r.mu.Lock()
		r.current = cur
		r.mu.Unlock()

		select {
		case r.changes <- slices.Clone(cur):
		default:
			// never block the tick thread
		}
	}
}

func (r *Runner) drainRumbles(pads *gamepad.Gamepads) {
	for {
		select {
		case req := <-r.rumbles:
			pads.Rumble(req.ID, req.DurationMs, req.StartDelayMs, req.Strong, req.Weak)
		default:
			return
		}
	}
}
