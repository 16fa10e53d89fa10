package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, BackendSDL, c.Backend)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 16*time.Millisecond, c.PollInterval)
	assert.InDelta(t, 0.05, c.Deadzone, 1e-9)
	assert.Equal(t, "info", c.LogLevel)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GAMEPADS_BACKEND", "snapshot")
	t.Setenv("GAMEPADS_POLL_INTERVAL", "8ms")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, BackendSnapshot, c.Backend)
	assert.Equal(t, 8*time.Millisecond, c.PollInterval)

	c, err = Load([]string{"--backend", "rawinput"})
	require.NoError(t, err)
	assert.Equal(t, BackendRawInput, c.Backend)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("backend: joystick\ndeadzone: 0.2\njoystick-dir: /tmp/js\n"), 0o600))

	c, err := Load([]string{"--config", file})
	require.NoError(t, err)
	assert.Equal(t, BackendJoystick, c.Backend)
	assert.InDelta(t, 0.2, c.Deadzone, 1e-9)
	assert.Equal(t, "/tmp/js", c.JoystickDir)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load([]string{"--backend", "xinput"})
	assert.Error(t, err)
	_, err = Load([]string{"--deadzone", "1.5"})
	assert.Error(t, err)
	_, err = Load([]string{"--poll-interval", "0s"})
	assert.Error(t, err)
}
