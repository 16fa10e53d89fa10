package gamepad

import (
	"math"
	"time"
)

// Rumble is a dual-motor effect in backend units.
type Rumble struct {
	Strong uint32 // low-frequency motor
	Weak   uint32 // high-frequency motor

	Duration time.Duration
	Delay    time.Duration
	// RepeatFor keeps both channels alive for the whole lifetime of the effect.
	RepeatFor time.Duration
}

// Playback is a playing effect owned by the caller. Some backends stop the
// vibration as soon as it is closed, so it must be held until it expires.
type Playback interface {
	Close() error
}

// ScaleMagnitude maps a [0, 1] magnitude onto [0, full], rounding to nearest.
func ScaleMagnitude(m float32, full uint32) uint32 {
	return uint32(math.Round(float64(clamp01(m)) * float64(full)))
}

func clamp01(m float32) float32 {
	switch {
	case m != m, m < 0:
		return 0
	case m > 1:
		return 1
	}
	return m
}

type liveEffect struct {
	playback Playback
	expiry   time.Time
}

// scheduler keeps every submitted effect alive until it has expired.
type scheduler struct {
	live []liveEffect
	now  func() time.Time
}

// purge releases effects whose expiry is at or before now.
func (s *scheduler) purge(now time.Time) {
	kept := s.live[:0]
	for _, e := range s.live {
		if !e.expiry.After(now) {
			_ = e.playback.Close()
			continue
		}
		kept = append(kept, e)
	}
	clear(s.live[len(kept):])
	s.live = kept
}

func (s *scheduler) submit(b Backend, id ID, durationMs, startDelayMs uint32, strong, weak float32) error {
	now := s.now()
	s.purge(now)

	if int(id) >= MaxGamepads {
		return ErrNoDevice
	}
	duration := time.Duration(durationMs) * time.Millisecond
	delay := time.Duration(startDelayMs) * time.Millisecond
	full := b.MagnitudeMax()
	effect := Rumble{
		Strong:    ScaleMagnitude(strong, full),
		Weak:      ScaleMagnitude(weak, full),
		Duration:  duration,
		Delay:     delay,
		RepeatFor: duration + delay,
	}
	p, err := b.Rumble(id, effect)
	if err != nil {
		return err
	}
	s.live = append(s.live, liveEffect{playback: p, expiry: now.Add(duration + delay)})
	return nil
}

func (s *scheduler) releaseAll() {
	for _, e := range s.live {
		_ = e.playback.Close()
	}
	s.live = nil
}
