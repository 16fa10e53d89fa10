// Package motor schedules rumble effects for backends whose native call
// starts an effect immediately and has no notion of a start delay. A newer
// effect on a device supersedes older ones: their delayed starts are
// cancelled and closing them no longer stops the motors.
package motor

import (
	"errors"
	"time"

	"github.com/soar/gamepads/gamepad"
)

// Driver drives the motors of one native device.
type Driver[K comparable] interface {
	Start(k K, r gamepad.Rumble) error
	Stop(k K) error
}

type pending[K comparable] struct {
	key   K
	start time.Time
	r     gamepad.Rumble
	gen   uint64
}

// Scheduler is not safe for concurrent use; backends call it from their
// polling thread.
type Scheduler[K comparable] struct {
	drv     Driver[K]
	now     func() time.Time
	seq     uint64
	current map[K]uint64
	delayed []pending[K]
}

func New[K comparable](drv Driver[K], now func() time.Time) *Scheduler[K] {
	if now == nil {
		now = time.Now
	}
	return &Scheduler[K]{drv: drv, now: now, current: make(map[K]uint64)}
}

// Play starts r on k now, or queues it until its delay has passed.
func (s *Scheduler[K]) Play(k K, r gamepad.Rumble) (gamepad.Playback, error) {
	s.seq++
	gen := s.seq
	if r.Delay > 0 {
		s.current[k] = gen
		s.delayed = append(s.delayed, pending[K]{key: k, start: s.now().Add(r.Delay), r: r, gen: gen})
		return &playback[K]{s: s, key: k, gen: gen}, nil
	}
	if err := s.drv.Start(k, r); err != nil {
		return nil, err
	}
	s.current[k] = gen
	return &playback[K]{s: s, key: k, gen: gen}, nil
}

// StartDue starts every queued effect whose delay has passed and that has
// not been superseded.
func (s *Scheduler[K]) StartDue() error {
	if len(s.delayed) == 0 {
		return nil
	}
	now := s.now()
	var errs []error
	kept := s.delayed[:0]
	for _, p := range s.delayed {
		if p.start.After(now) {
			kept = append(kept, p)
			continue
		}
		if s.current[p.key] != p.gen {
			continue
		}
		if err := s.drv.Start(p.key, p.r); err != nil {
			errs = append(errs, err)
		}
	}
	s.delayed = kept
	return errors.Join(errs...)
}

// Pending is the number of queued effects.
func (s *Scheduler[K]) Pending() int { return len(s.delayed) }

// Forget drops everything known about k, typically on removal. Playbacks
// of k become no-ops.
func (s *Scheduler[K]) Forget(k K) {
	delete(s.current, k)
	s.delayed = s.remove(func(p pending[K]) bool { return p.key == k })
}

// Reset forgets every device.
func (s *Scheduler[K]) Reset() {
	clear(s.current)
	s.delayed = nil
}

func (s *Scheduler[K]) remove(drop func(pending[K]) bool) []pending[K] {
	kept := s.delayed[:0]
	for _, p := range s.delayed {
		if !drop(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

type playback[K comparable] struct {
	s   *Scheduler[K]
	key K
	gen uint64
}

// Close stops the motors unless a newer effect has taken over the device.
func (p *playback[K]) Close() error {
	s := p.s
	if gen, ok := s.current[p.key]; !ok || gen != p.gen {
		return nil
	}
	delete(s.current, p.key)
	s.delayed = s.remove(func(d pending[K]) bool { return d.key == p.key && d.gen == p.gen })
	return s.drv.Stop(p.key)
}
