//go:build !linux

package joystick

import (
	"github.com/rs/zerolog"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/eventstream"
)

// Source is only implemented on Linux.
type Source struct{}

func Open(string, float32, zerolog.Logger) (*Source, error) { return nil, gamepad.ErrUnsupported }

func (*Source) NextEvent() (Event, bool) { return Event{}, false }

func (*Source) Deadzone(string, eventstream.NativeAxis) (float32, bool) { return 0, false }

func (*Source) Rumble(string, gamepad.Rumble) (gamepad.Playback, error) {
	return nil, gamepad.ErrUnsupported
}

func (*Source) MagnitudeMax() uint32 { return 0 }
func (*Source) Close() error         { return nil }
