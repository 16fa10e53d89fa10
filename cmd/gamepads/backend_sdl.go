//go:build !nosdl

package main

import (
	"github.com/rs/zerolog"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/eventstream"
	"github.com/soar/gamepads/gamepad/sdl"
	"github.com/soar/gamepads/internal/bridge"
	"github.com/soar/gamepads/internal/config"
	"github.com/soar/gamepads/internal/runner"
)

// The SDL binding loads libSDL3 when the process starts; build with
// -tags nosdl for hosts without it.
func init() {
	openers[config.BackendSDL] = func(cfg config.Config, _ *bridge.Bridge, log zerolog.Logger) runner.OpenFunc {
		return func() (gamepad.Backend, error) {
			src, err := sdl.Open(float32(cfg.Deadzone), log)
			if err != nil {
				return nil, err
			}
			return eventstream.New(src), nil
		}
	}
}
