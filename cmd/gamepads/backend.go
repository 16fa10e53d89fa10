package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/eventstream"
	"github.com/soar/gamepads/gamepad/joystick"
	"github.com/soar/gamepads/gamepad/rawinput"
	"github.com/soar/gamepads/gamepad/snapshot"
	"github.com/soar/gamepads/internal/bridge"
	"github.com/soar/gamepads/internal/config"
	"github.com/soar/gamepads/internal/runner"
)

// opener builds the OpenFunc of one backend. br is nil unless the backend
// uses the host bridge.
type opener func(cfg config.Config, br *bridge.Bridge, log zerolog.Logger) runner.OpenFunc

// openers holds the backends linked into this binary. Backends that load
// native libraries register themselves from build-tagged files.
var openers = map[string]opener{
	config.BackendJoystick: func(cfg config.Config, _ *bridge.Bridge, log zerolog.Logger) runner.OpenFunc {
		return func() (gamepad.Backend, error) {
			src, err := joystick.Open(cfg.JoystickDir, float32(cfg.Deadzone), log)
			if err != nil {
				return nil, err
			}
			return eventstream.New(src), nil
		}
	},
	config.BackendSnapshot: func(_ config.Config, br *bridge.Bridge, _ zerolog.Logger) runner.OpenFunc {
		return func() (gamepad.Backend, error) {
			return snapshot.New(br.SnapshotSource()), nil
		}
	},
	config.BackendRawInput: func(_ config.Config, br *bridge.Bridge, _ zerolog.Logger) runner.OpenFunc {
		return func() (gamepad.Backend, error) {
			return rawinput.New(br.RawInputSource()), nil
		}
	},
}

// backendOpener returns the OpenFunc for the configured backend.
func backendOpener(cfg config.Config, br *bridge.Bridge, log zerolog.Logger) (runner.OpenFunc, error) {
	o, ok := openers[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("backend %q is not available in this build: %w", cfg.Backend, gamepad.ErrUnsupported)
	}
	return o(cfg, br, log), nil
}

func usesBridge(backend string) bool {
	return backend == config.BackendSnapshot || backend == config.BackendRawInput
}
