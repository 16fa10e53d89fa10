// Package config loads settings from flags, GAMEPADS_* environment variables
// and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Backends accepted by the backend key.
const (
	BackendSDL      = "sdl"
	BackendJoystick = "joystick"
	BackendSnapshot = "snapshot"
	BackendRawInput = "rawinput"
)

type Config struct {
	Backend      string        `mapstructure:"backend"`
	Addr         string        `mapstructure:"addr"`
	PollInterval time.Duration `mapstructure:"poll-interval"`
	Deadzone     float64       `mapstructure:"deadzone"`
	JoystickDir  string        `mapstructure:"joystick-dir"`
	LogLevel     string        `mapstructure:"log-level"`
	LogJSON      bool          `mapstructure:"log-json"`
	Tray         bool          `mapstructure:"tray"`
}

// Load parses args (without the program name).
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("gamepads", pflag.ContinueOnError)
	fs.String("backend", BackendSDL, "input backend: sdl, joystick, snapshot or rawinput")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.Duration("poll-interval", 16*time.Millisecond, "tick period")
	fs.Float64("deadzone", 0.05, "stick deadzone for sources without calibration")
	fs.String("joystick-dir", "/dev/input", "directory holding js* nodes")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	fs.Bool("log-json", false, "log JSON instead of console output")
	fs.Bool("tray", runtime.GOOS == "windows", "show the tray icon")
	fs.String("config", "", "config file (default ./gamepads.{yaml,toml,json} if present)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("GAMEPADS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("gamepads")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSDL, BackendJoystick, BackendSnapshot, BackendRawInput:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll-interval must be positive, got %s", c.PollInterval)
	}
	if c.Deadzone < 0 || c.Deadzone >= 1 {
		return fmt.Errorf("config: deadzone must be in [0, 1), got %v", c.Deadzone)
	}
	return nil
}
